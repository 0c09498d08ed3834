package main

import (
	"io"
	"log"
	"net/http"

	"pgme/src/common"
	"pgme/src/config"
	"pgme/src/types"
	"pgme/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// publicPropertyHandlers serves the browse surface: only approved
// listings come back from these routes.
func publicPropertyHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/properties", func(ctx *gin.Context) {
			var filters types.PropertyQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			properties, err := common.SearchProperties(&filters)
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
		}).
		GET("/properties/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			property, err := common.GetPropertyByID(uuid.MustParse(params.ID))
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		})
	return g
}

func propertyHandlers(g *gin.RouterGroup, cfg *config.Config) *gin.RouterGroup {
	g.
		POST("/properties", func(ctx *gin.Context) {
			var body types.CreatePropertyRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			property, err := common.CreateProperty(&body)
			if err != nil {
				log.Printf("Error creating property: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": property})
		}).
		PUT("/properties/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreatePropertyRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			property, err := common.UpdateProperty(uuid.MustParse(params.ID), &body)
			if err != nil {
				log.Printf("Error updating property: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		}).
		DELETE("/properties/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := common.DeleteProperty(uuid.MustParse(params.ID), cfg.ImagesBucket); err != nil {
				log.Printf("Error deleting property: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/properties/:id/location", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				LocationDetails string `json:"location_details" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			property, err := common.UpdatePropertyLocation(uuid.MustParse(params.ID), body.LocationDetails)
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		}).
		POST("/properties/:id/images", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			form, err := ctx.MultipartForm()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			files := form.File["images"]
			if len(files) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "no images in request"})
				return
			}
			images := map[string]io.Reader{}
			for _, fh := range files {
				f, err := fh.Open()
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				defer f.Close()
				images[fh.Filename] = f
			}
			property, err := common.UploadPropertyImages(uuid.MustParse(params.ID), cfg.ImagesBucket, cfg.MaxPropertyImages, images)
			if err != nil {
				log.Printf("Error uploading images: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		}).
		DELETE("/properties/:id/images", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			property, err := common.DeletePropertyImages(uuid.MustParse(params.ID), cfg.ImagesBucket)
			if err != nil {
				log.Printf("Error deleting images: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		}).
		GET("/providers/:id/properties", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			properties, err := common.GetPropertiesByOwner(uuid.MustParse(params.ID))
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
		})
	return g
}
