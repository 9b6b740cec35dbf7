package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/forkwell/recipe-api/internal/api"
	"github.com/forkwell/recipe-api/internal/middleware"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Users        *api.UserHandler
	Recipes      *api.RecipeHandler
	Tags         *api.AttributeHandler
	Ingredients  *api.AttributeHandler
	Validator    middleware.TokenValidator
	LoginLimiter *middleware.RateLimiter
}

// New configures the application routes.
func New(h Handlers) *gin.Engine {
	router := gin.Default()
	// POST against a GET-only route answers 405, not 404.
	router.HandleMethodNotAllowed = true

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")

	user := v1.Group("/user")
	{
		user.POST("/create", h.Users.Create)
		user.POST("/token", h.LoginLimiter.ByClientIP(), h.Users.Token)

		me := user.Group("/me", middleware.Auth(h.Validator))
		{
			me.GET("", h.Users.Me)
			me.PATCH("", h.Users.UpdateMe)
		}
	}

	recipe := v1.Group("/recipe", middleware.Auth(h.Validator))
	{
		recipes := recipe.Group("/recipes")
		{
			recipes.GET("", h.Recipes.List)
			recipes.POST("", h.Recipes.Create)
			recipes.GET("/:id", h.Recipes.Get)
			recipes.PUT("/:id", h.Recipes.Replace)
			recipes.PATCH("/:id", h.Recipes.Update)
			recipes.DELETE("/:id", h.Recipes.Delete)
			recipes.POST("/:id/upload-image", h.Recipes.UploadImage)
		}

		tags := recipe.Group("/tags")
		{
			tags.GET("", h.Tags.List)
			tags.POST("", h.Tags.Create)
			tags.PATCH("/:id", h.Tags.Update)
			tags.DELETE("/:id", h.Tags.Delete)
		}

		ingredients := recipe.Group("/ingredients")
		{
			ingredients.GET("", h.Ingredients.List)
			ingredients.POST("", h.Ingredients.Create)
			ingredients.PATCH("/:id", h.Ingredients.Update)
			ingredients.DELETE("/:id", h.Ingredients.Delete)
		}
	}

	return router
}
