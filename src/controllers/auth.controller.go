package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"pgme/src/common"
	"pgme/src/config"
	"pgme/src/db"
	"pgme/src/lib"
	"pgme/src/models"
	"pgme/src/types"
	"pgme/src/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthLogin authenticates against the three account tables in order:
// admins first, then seekers, then providers. The first table holding
// the email wins, so a duplicate email across tables always resolves to
// the higher-privileged account.
func AuthLogin(ctx *gin.Context, cfg *config.Config) (*types.LoginResponse, int, error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	tx := db.GetDb()

	var admin models.Admin
	err := tx.Model(&models.Admin{}).Where("email = ?", body.Email).First(&admin).Error
	if err == nil {
		return loginAs(cfg, admin.ID.String(), admin.Email, admin.FullName, types.ROLE_ADMIN, admin.Password, body.Password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, http.StatusInternalServerError, err
	}

	var seeker models.Seeker
	err = tx.Model(&models.Seeker{}).Where("email = ?", body.Email).First(&seeker).Error
	if err == nil {
		return loginAs(cfg, seeker.ID.String(), seeker.Email, seeker.FullName, types.ROLE_SEEKER, seeker.Password, body.Password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, http.StatusInternalServerError, err
	}

	var provider models.Provider
	err = tx.Model(&models.Provider{}).Where("email = ?", body.Email).First(&provider).Error
	if err == nil {
		return loginAs(cfg, provider.ID.String(), provider.Email, provider.FullName, types.ROLE_PROVIDER, provider.Password, body.Password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, http.StatusInternalServerError, err
	}

	return nil, http.StatusUnauthorized, &types.AuthError{Message: "invalid email or password"}
}

func loginAs(cfg *config.Config, id, email, fullName, role, hashed, password string) (*types.LoginResponse, int, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return nil, http.StatusUnauthorized, &types.AuthError{Message: "invalid email or password", Err: err}
	}
	token, err := utils.GenerateJWT(cfg, id, email, role)
	if err != nil {
		log.Printf("Error signing token for %s: %s\n", email, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	resp := &types.LoginResponse{
		Token:    token,
		Role:     role,
		ID:       id,
		FullName: fullName,
		Email:    email,
	}

	rd := lib.GetRedisClient()
	if rd != nil {
		_, err := rd.HSet(context.Background(), fmt.Sprintf("%s:profile", id), map[string]string{
			"email":     email,
			"full_name": fullName,
			"role":      role,
		}).Result()
		if err != nil {
			log.Printf("[redis] Error updating profile cache: %s\n", err.Error())
		}
	}

	return resp, http.StatusOK, nil
}

func AuthRegisterSeeker(ctx *gin.Context, cfg *config.Config) (*models.Seeker, int, error) {
	var body types.RegisterSeekerRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	seeker, err := common.RegisterSeeker(cfg, &body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return seeker, http.StatusCreated, nil
}

func AuthRegisterProvider(ctx *gin.Context, cfg *config.Config) (*models.Provider, int, error) {
	var body types.RegisterProviderRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	provider, err := common.RegisterProvider(cfg, &body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return provider, http.StatusCreated, nil
}
