package handlers

import (
	"net/http"
	"time"

	"techblog/internal/logger"
	"techblog/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config carries the HTTP-facing knobs loaded from configuration.
type Config struct {
	// AllowedOrigins lists the frontend origins permitted to make
	// credentialed cross-site calls.
	AllowedOrigins []string
	// SecureCookie marks the session cookie Secure (production).
	SecureCookie bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	return &Handler{services: services, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(h.corsConfig()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerPostRoutes(router)

	return router
}

// corsConfig allows the configured frontend origins to send the
// session cookie cross-site.
func (h *Handler) corsConfig() cors.Config {
	return cors.Config{
		AllowOrigins:     h.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/signin", h.signIn)
		auth.POST("/signout", h.signOut)
		auth.GET("/profile", h.sessionRequired, h.profile)
	}
}

func (h *Handler) registerPostRoutes(r *gin.Engine) {
	posts := r.Group("/posts")
	{
		posts.GET("", h.listPosts)
		posts.GET("/:id", h.getPost)

		// Mutations require a valid session
		posts.POST("", h.sessionRequired, h.createPost)
		posts.PUT("/:id", h.sessionRequired, h.updatePost)
		posts.DELETE("/:id", h.sessionRequired, h.deletePost)
	}
}
