// Package front is the user-facing service: it keeps the in-memory working
// set of collections, applies mutations optimistically against it, and exposes
// the filtered and derived views the browser renders.
package front

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskflow/internal/gateway"
	"taskflow/internal/session"
	"taskflow/internal/store"
)

var (
	config Config
	engine *gin.Engine
)

func setCors() {
	corsconfig := cors.DefaultConfig()
	corsconfig.AllowOrigins = config.AllowedOrigins
	corsconfig.AllowMethods = config.AllowedMethods
	corsconfig.AllowHeaders = config.AllowedHeaders
	corsconfig.AllowCredentials = true
	engine.Use(cors.New(corsconfig))
}

func setRoutes(app *App) {
	root := engine.Group("/")
	{
		root.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "alive"})
		})
		root.POST("/login", app.handleLogin)
		root.POST("/logout", app.handleLogout)
	}

	api := engine.Group("/api/v1")
	api.Use(app.guard.RequireUser())
	{
		api.GET("/me", app.handleMe)
		api.POST("/refresh", app.handleRefresh)

		api.POST("/projects/query", app.handleQueryProjects)
		api.POST("/projects", app.handleCreateProject)
		api.PUT("/projects/:id", app.handleUpdateProject)
		api.DELETE("/projects/:id", app.handleDeleteProject)

		api.POST("/tasks/query", app.handleQueryTasks)
		api.GET("/tasks/:id", app.handleGetTask)
		api.POST("/tasks", app.handleCreateTask)
		api.PUT("/tasks/:id", app.handleUpdateTask)
		api.DELETE("/tasks/:id", app.handleDeleteTask)

		api.GET("/tasks/:id/comments", app.handleListComments)
		api.POST("/tasks/:id/comments", app.handlePostComment)
		api.POST("/tasks/:id/attachments", app.handleUploadAttachment)
		api.POST("/tasks/:id/timer/complete", app.handleCompleteTimer)

		api.GET("/members", app.handleListMembers)
		api.GET("/notifications", app.handleMyNotifications)
		api.PATCH("/notifications/:id/read", app.handleMarkNotificationRead)
	}

	admin := engine.Group("/api/v1/admin")
	admin.Use(app.guard.RequireUser(), app.guard.RequireAdmin())
	{
		admin.POST("/members", app.handleCreateMember)
		admin.PUT("/members/:id", app.handleUpdateMember)
		admin.DELETE("/members/:id", app.handleDeleteMember)
	}
}

func InitAndServe(confPath string) {
	config = loadConfig(confPath)

	engine = gin.Default()
	setGinMode(config.ApiGinMode)

	gw := gateway.NewClient(config.StoreBase, config.StorageBase)
	st := store.New(gw)
	auth := session.NewAuthenticator(gw)
	guard := &session.Guard{Secret: []byte(config.SessionSecret), Auth: auth}
	app := NewApp(st, auth, guard, gw, config)

	setCors()
	setRoutes(app)

	// warm the working set before taking traffic; a cold store would answer
	// every query with empty collections until the first refresh
	st.Refresh(context.Background())

	// serve http
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port),
		Handler:           engine,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()

	stop()
	log.Println("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

func setGinMode(mode string) {
	switch strings.ToLower(mode) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
