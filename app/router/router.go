package router

import (
	"otprelay/app/handler"
	"otprelay/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	otpHandler    *handler.OTPHandler
	workerHandler *handler.WorkerHandler
	runHandler    *handler.RunHandler
}

// NewRouter creates a new Router
func NewRouter(otpHandler *handler.OTPHandler, workerHandler *handler.WorkerHandler, runHandler *handler.RunHandler) *Router {
	return &Router{
		otpHandler:    otpHandler,
		workerHandler: workerHandler,
		runHandler:    runHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	// Inbound notification surface: webhook or manual code submission
	engine.POST("/otp", r.otpHandler.Submit)
	engine.GET("/otp", r.otpHandler.Info)
	engine.GET("/otp/status", r.otpHandler.Status)

	// Automation runs
	if r.runHandler != nil {
		engine.POST("/start", r.runHandler.Start)
	}

	// V1 API - worker diagnostics
	v1 := engine.Group("/v1")
	v1.Use(middleware.AuthMiddleware())
	{
		v1.GET("/workers", r.workerHandler.List)
		v1.GET("/workers/:id", r.workerHandler.Get)
	}

	// Health check
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
