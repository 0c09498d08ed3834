package utils

import (
	"errors"
	"net/http"
	"time"

	"pgme/src/config"
	"pgme/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT signs a token for the given principal with the configured
// secret. The subject is the principal's id so the auth middleware can
// load the account back.
func GenerateJWT(cfg *config.Config, subject, email, role string) (string, error) {
	claims := types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JWTExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// WriteError maps the error types used across the services onto HTTP
// statuses. Unknown errors become a 500 with a generic message.
func WriteError(ctx *gin.Context, err error) {
	var validationErr *types.ValidationError
	var notFoundErr *types.NotFoundError
	var transitionErr *types.InvalidTransitionError
	var authErr *types.AuthError
	var processorErr *types.ProcessorError
	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &transitionErr):
		ctx.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.As(err, &authErr):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
	case errors.As(err, &processorErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": processorErr.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
