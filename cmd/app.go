package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"otprelay/app/handler"
	"otprelay/app/router"
	"otprelay/internal/automation"
	"otprelay/internal/service"
	"otprelay/pkg/config"
	"otprelay/pkg/logger"
	"otprelay/pkg/otp"
	"otprelay/pkg/ports"
	"otprelay/pkg/registry"

	"github.com/gin-gonic/gin"
)

// Application manages the lifecycle of the entire application
type Application struct {
	// Infrastructure components
	config *config.Config

	// Coordination core
	codeQueue     *otp.Queue
	legacyMailbox *otp.Mailbox
	workerRecords *registry.Registry
	portAllocator *ports.Allocator

	// Service layer
	otpService    *service.OTPService
	workerService *service.WorkerService
	runner        *automation.Runner

	// Handler layer
	otpHandler    *handler.OTPHandler
	workerHandler *handler.WorkerHandler
	runHandler    *handler.RunHandler

	// HTTP server
	httpServer *http.Server
	ginEngine  *gin.Engine

	// Portal session implementation, injected by the embedding binary.
	// When absent the run-start surface is not registered.
	sessionFactory automation.SessionFactory

	// Context management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:    ctx,
		cancel: cancel,
	}
}

// WithSessionFactory injects the external portal-walk implementation.
// Must be called before Initialize.
func (app *Application) WithSessionFactory(factory automation.SessionFactory) *Application {
	app.sessionFactory = factory
	return app
}

// Initialize initializes all application components
func (app *Application) Initialize() error {
	var err error

	// Initialize components in order
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Configuration", app.initConfig},
		{"Logging", app.initLogger},
		{"Coordination Core", app.initCore},
		{"Service Layer", app.initServices},
		{"Handler Layer", app.initHandlers},
		{"HTTP Server", app.initHTTPServer},
	}

	for _, step := range steps {
		logger.InfoCtx(app.ctx, "Initializing %s...", step.name)
		if err = step.fn(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
		logger.InfoCtx(app.ctx, "%s initialized successfully", step.name)
	}

	logger.InfoCtx(app.ctx, "Application initialization completed")
	return nil
}

func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

func (app *Application) initLogger() error {
	return logger.Init()
}

func (app *Application) initCore() error {
	cfg := app.config.OTP
	app.codeQueue = otp.NewQueue().
		WithPollInterval(time.Duration(cfg.PollIntervalMS) * time.Millisecond)
	app.legacyMailbox = otp.NewMailbox(time.Duration(cfg.LegacyTTLSeconds) * time.Second)
	app.workerRecords = registry.NewRegistry()
	app.portAllocator = ports.NewAllocator(app.config.Ports.Low, app.config.Ports.High)
	return nil
}

func (app *Application) initServices() error {
	waitTimeout := time.Duration(app.config.OTP.WaitTimeoutSeconds) * time.Second
	app.otpService = service.NewOTPService(app.codeQueue, app.legacyMailbox, app.workerRecords, waitTimeout)
	app.workerService = service.NewWorkerService(app.workerRecords, app.portAllocator)
	if app.sessionFactory != nil {
		app.runner = automation.NewRunner(app.workerService, app.otpService, app.sessionFactory)
	}
	return nil
}

func (app *Application) initHandlers() error {
	app.otpHandler = handler.NewOTPHandler(app.otpService)
	app.workerHandler = handler.NewWorkerHandler(app.workerService)
	if app.runner != nil {
		app.runHandler = handler.NewRunHandler(app.runner)
	}
	return nil
}

func (app *Application) initHTTPServer() error {
	if app.config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app.ginEngine = gin.New()
	r := router.NewRouter(app.otpHandler, app.workerHandler, app.runHandler)
	r.Setup(app.ginEngine)

	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}
	return nil
}

// Start starts all application components
func (app *Application) Start() error {
	logger.InfoCtx(app.ctx, "Starting application components...")

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		logger.InfoCtx(app.ctx, "HTTP server listening on: %s", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalCtx(app.ctx, "HTTP server error: %v", err)
		}
	}()

	logger.InfoCtx(app.ctx, "All components started successfully")
	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown(timeout time.Duration) error {
	logger.InfoCtx(app.ctx, "Starting graceful shutdown (timeout: %v)...", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 1. Stop the application context. In-flight runs are not cancelled by
	// this: they use the blocking call shape and drain on their own, bounded
	// by their acquire timeouts.
	app.cancel()

	// 2. Stop HTTP server (stop accepting new requests)
	logger.InfoCtx(app.ctx, "Shutting down HTTP server...")
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(app.ctx, "HTTP server shutdown error: %v", err)
	}

	// 3. Wait for in-flight runs and background goroutines
	done := make(chan struct{})
	go func() {
		if app.runner != nil {
			app.runner.Wait()
		}
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoCtx(app.ctx, "All background tasks completed")
	case <-shutdownCtx.Done():
		logger.WarnCtx(app.ctx, "Shutdown timeout, some tasks may not have completed")
	}

	// 4. Sync logs
	logger.Sync()

	logger.InfoCtx(app.ctx, "Graceful shutdown completed")
	return nil
}
