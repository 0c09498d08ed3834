package main

import (
	"errors"
	"net/http"

	"pgme/src/db"
	"pgme/src/models"
	"pgme/src/types"
	"pgme/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func seekerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/seekers/:id/profile", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var seeker models.Seeker
			err := db.GetDb().Model(&models.Seeker{}).Where("id = ?", params.ID).First(&seeker).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.WriteError(ctx, &types.NotFoundError{Resource: "Seeker", ID: params.ID, Err: err})
					return
				}
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seeker})
		}).
		PUT("/seekers/:id/profile", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			// Only the account owner may edit the profile.
			if ctx.GetString("id") != params.ID {
				ctx.Status(http.StatusForbidden)
				return
			}
			var body types.RegisterSeekerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var seeker models.Seeker
			tx := db.GetDb()
			err := tx.Model(&models.Seeker{}).Where("id = ?", params.ID).First(&seeker).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.WriteError(ctx, &types.NotFoundError{Resource: "Seeker", ID: params.ID, Err: err})
					return
				}
				utils.WriteError(ctx, err)
				return
			}
			seeker.FullName = body.FullName
			seeker.Phone = body.Phone
			seeker.DateOfBirth = body.DateOfBirth
			seeker.Gender = body.Gender
			seeker.CurrentCity = body.CurrentCity
			seeker.GovtIDType = body.GovtIDType
			seeker.GovtIDNumber = body.GovtIDNumber
			seeker.EmergencyContactName = body.EmergencyContactName
			seeker.EmergencyContactNumber = body.EmergencyContactNumber
			seeker.PreferredLocation = body.PreferredLocation
			seeker.OccupationType = body.OccupationType
			seeker.CollegeName = body.CollegeName
			seeker.CompanyName = body.CompanyName
			if err := tx.Save(&seeker).Error; err != nil {
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seeker})
		})
	return g
}
