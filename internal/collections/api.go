// Package collections is the backend collection store: a REST surface over
// postgres offering get-all/create/update/delete per collection, single-column
// patches, and bucketed object storage for attachments. Clients treat it as
// opaque; all business rules live on their side.
package collections

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	config Config
	engine *gin.Engine
	pool   *pgxpool.Pool
)

func initDBConn() {
	var err error
	pool, err = pgxpool.New(
		context.Background(),
		fmt.Sprintf(
			"postgres://%s:%s@%s/%s",
			config.DBUser,
			config.DBPassword,
			config.DBAddress,
			config.DBName,
		),
	)
	if err != nil {
		log.Fatalf("could not connect to the database: %v", err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalf("failed to ping the db: %v", err)
	}

	b, err := os.ReadFile(config.InitSQLPath)
	if err != nil {
		log.Fatalf("failed to open and read the init sql file: %v", err)
	}
	// apply init sql script
	_, err = pool.Exec(context.Background(), string(b))
	if err != nil {
		log.Fatalf("failed to execute init sql: %v", err)
	}
}

func setCors() {
	corsconfig := cors.DefaultConfig()
	corsconfig.AllowOrigins = config.AllowedOrigins
	corsconfig.AllowMethods = config.AllowedMethods
	corsconfig.AllowHeaders = config.AllowedHeaders
	engine.Use(cors.New(corsconfig))
}

func setRoutes() {
	root := engine.Group("/")
	{
		root.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "alive"})
		})
	}

	store := engine.Group("/store/v1")
	{
		store.GET("/team_members", handleListMembers)
		store.POST("/team_members", handleCreateMember)
		store.PUT("/team_members/:id", handleUpdateMember)
		store.DELETE("/team_members/:id", handleDeleteMember)

		store.GET("/projects", handleListProjects)
		store.POST("/projects", handleCreateProject)
		store.PUT("/projects/:id", handleUpdateProject)
		store.DELETE("/projects/:id", handleDeleteProject)

		store.GET("/tasks", handleListTasks)
		store.POST("/tasks", handleCreateTask)
		store.PUT("/tasks/:id", handleUpdateTask)
		store.PATCH("/tasks/:id", handlePatch("tasks"))
		store.DELETE("/tasks/:id", handleDeleteTask)

		store.GET("/notifications", handleListNotifications)
		store.POST("/notifications", handleCreateNotification)
		store.PATCH("/notifications/:id", handlePatch("notifications"))
		store.DELETE("/notifications/:id", handleDeleteNotification)
	}

	storage := engine.Group("/storage/v1")
	{
		storage.POST("/bucket", handleCreateBucket)
		storage.POST("/object/:bucket/:name", handlePutObject)
		storage.GET("/object/public/:bucket/:name", handleGetPublicObject)
	}
}

func InitAndServe(confPath string) {
	config = loadConfig(confPath)

	engine = gin.Default()
	setGinMode(config.ApiGinMode)

	setCors()
	setRoutes()

	initDBConn()

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

	// close db conn
	pool.Close()

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
