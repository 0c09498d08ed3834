package main

import (
	"log"
	"net/http"

	"pgme/src/common"
	"pgme/src/db"
	"pgme/src/models"
	"pgme/src/types"
	"pgme/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/admin")
	admin.
		GET("/stats", func(ctx *gin.Context) {
			tx := db.GetDb()
			var properties, pending, bookings, seekers, providers int64
			tx.Model(&models.Property{}).Count(&properties)
			tx.Model(&models.Property{}).Where("approval_status = ?", types.APPROVAL_PENDING).Count(&pending)
			tx.Model(&models.Booking{}).Count(&bookings)
			tx.Model(&models.Seeker{}).Count(&seekers)
			tx.Model(&models.Provider{}).Count(&providers)
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"properties":         properties,
				"pending_properties": pending,
				"bookings":           bookings,
				"seekers":            seekers,
				"providers":          providers,
			}})
		}).
		GET("/seekers", func(ctx *gin.Context) {
			var seekers []models.Seeker
			if err := db.GetDb().Find(&seekers).Error; err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seekers, "count": len(seekers)})
		}).
		GET("/providers", func(ctx *gin.Context) {
			var providers []models.Provider
			if err := db.GetDb().Find(&providers).Error; err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": providers, "count": len(providers)})
		}).
		GET("/properties", func(ctx *gin.Context) {
			properties, err := common.GetAllProperties()
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
		}).
		GET("/properties/pending", func(ctx *gin.Context) {
			properties, err := common.GetPropertiesByApproval(types.APPROVAL_PENDING)
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
		}).
		GET("/properties/approved", func(ctx *gin.Context) {
			properties, err := common.GetPropertiesByApproval(types.APPROVAL_APPROVED)
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
		}).
		GET("/properties/rejected", func(ctx *gin.Context) {
			properties, err := common.GetPropertiesByApproval(types.APPROVAL_REJECTED)
			if err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
		}).
		PUT("/properties/:id/approve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.ApprovePropertyRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			adminEmail := ctx.GetString("email")
			property, err := common.ApproveProperty(uuid.MustParse(params.ID), adminEmail, body.ApprovalNote)
			if err != nil {
				log.Printf("Error approving property: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		}).
		PUT("/properties/:id/reject", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.RejectPropertyRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			property, err := common.RejectProperty(uuid.MustParse(params.ID), body.RejectionReason)
			if err != nil {
				log.Printf("Error rejecting property: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": property})
		})
	return g
}
