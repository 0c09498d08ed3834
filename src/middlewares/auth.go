package middlewares

import (
	"log"
	"strings"

	"pgme/src/config"
	"pgme/src/db"
	"pgme/src/models"
	"pgme/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthMiddleware verifies the bearer token against the configured secret
// and loads the principal it names.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authenticate(ctx, cfg)
	}
}

func authenticate(ctx *gin.Context, cfg *config.Config) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if err == jwt.ErrSignatureInvalid || err == jwt.ErrTokenMalformed {
			ctx.AbortWithStatus(401)
			return
		}
		ctx.AbortWithError(401, err)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}

	// The subject must still exist in the table matching the role claim.
	tx := db.GetDb()
	var email string
	switch claims.Role {
	case types.ROLE_ADMIN:
		var admin models.Admin
		if err := tx.Model(&models.Admin{}).Where("id = ?", uid).First(&admin).Error; err != nil {
			ctx.AbortWithStatus(401)
			return
		}
		email = admin.Email
	case types.ROLE_SEEKER:
		var seeker models.Seeker
		if err := tx.Model(&models.Seeker{}).Where("id = ?", uid).First(&seeker).Error; err != nil {
			ctx.AbortWithStatus(401)
			return
		}
		email = seeker.Email
	case types.ROLE_PROVIDER:
		var provider models.Provider
		if err := tx.Model(&models.Provider{}).Where("id = ?", uid).First(&provider).Error; err != nil {
			ctx.AbortWithStatus(401)
			return
		}
		email = provider.Email
	default:
		ctx.AbortWithStatus(401)
		return
	}

	ctx.Set("email", email)
	ctx.Set("id", uid.String())
	ctx.Set("role", claims.Role)
}

// RequireRole guards a route group for the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				return
			}
		}
		ctx.AbortWithStatus(403)
	}
}
