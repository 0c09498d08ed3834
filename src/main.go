package main

import (
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"time"

	"pgme/src/boot"
	"pgme/src/config"
	"pgme/src/controllers"
	"pgme/src/db"
	"pgme/src/lib"
	"pgme/src/middlewares"
	"pgme/src/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	apiPrefix string = "/api"
)

// staydate accepts a calendar date that is today or later.
var stayDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	parsed, err := time.Parse(types.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return !parsed.Before(today)
}

// gtdate requires the field to be strictly after the named sibling field.
var gtfield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	parsed, err := time.Parse(types.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	other, err := time.Parse(types.DATE_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return parsed.After(other)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func apiGroup(g *gin.Engine) *gin.RouterGroup {
	return g.Group(apiPrefix)
}

func publicRoutes(g *gin.Engine, cfg *config.Config) *gin.RouterGroup {
	api := apiGroup(g)
	api = publicPropertyHandlers(api)
	api = paypalCallbackHandlers(api)
	return api
}

func guestAuthRoutes(g *gin.Engine, cfg *config.Config) *gin.RouterGroup {
	api := apiGroup(g)
	guest := api.Group("/auth")
	guest.
		POST("/login", func(ctx *gin.Context) {
			resp, status, err := controllers.AuthLogin(ctx, cfg)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": "invalid email or password"})
				return
			}
			ctx.JSON(http.StatusOK, resp)
		}).
		POST("/register/seeker", func(ctx *gin.Context) {
			seeker, status, err := controllers.AuthRegisterSeeker(ctx, cfg)
			if err != nil {
				log.Printf("[AuthRegisterSeeker] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": seeker})
		}).
		POST("/register/provider", func(ctx *gin.Context) {
			provider, status, err := controllers.AuthRegisterProvider(ctx, cfg)
			if err != nil {
				log.Printf("[AuthRegisterProvider] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": provider})
		})
	return guest
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	cfg := config.Load()

	db.Connect(cfg)
	boot.InitDb()
	boot.InitScheduler()
	lib.InitRedis(cfg)
	lib.InitSMTP(cfg)
	lib.NewPayPalGateway(lib.NewPayPalClient(cfg))

	router := setupRouter()

	appHost := cfg.AppHost
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("staydate", stayDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}

	publicRoutes(router, cfg)
	guestAuthRoutes(router, cfg)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware(cfg))
	{
		authorized = bookingHandlers(authorized)
		authorized = seekerHandlers(authorized)
		authorized = paypalHandlers(authorized)

		managed := authorized.Group("")
		managed.Use(middlewares.RequireRole(types.ROLE_PROVIDER, types.ROLE_ADMIN))
		propertyHandlers(managed, cfg)

		admin := authorized.Group("")
		admin.Use(middlewares.RequireRole(types.ROLE_ADMIN))
		adminHandlers(admin)
	}

	if err := router.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
