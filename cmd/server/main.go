package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"scenecast/config"
	"scenecast/internal/database"
	"scenecast/internal/handlers"
	"scenecast/internal/services"
	"scenecast/internal/utils"
	"scenecast/internal/worker"
)

func main() {
	fmt.Println("scenecast")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Printf("environment: %s", cfg.Server.Environment)
	log.Printf("server port: %d", cfg.Server.ServerPort)
	log.Printf("storage path: %s", cfg.Server.StoragePath)

	if err := utils.EnsureDataDirectories(); err != nil {
		log.Fatalf("failed to create data directories: %v", err)
	}

	if err := database.InitDB(cfg.Server.DBPath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()

	if _, err := os.Stat(cfg.Server.DBPath); err == nil {
		schemaPath := filepath.Join("scripts", "schema.sql")
		if err := database.ExecSchema(schemaPath); err != nil {
			log.Printf("warning: failed to apply schema: %v", err)
		}
	}

	runRepo := database.NewRunRepository(database.DB)
	sceneRepo := database.NewSceneRepository(database.DB)

	broadcaster := services.NewProgressBroadcaster()

	runHandler := handlers.NewRunHandler(runRepo, broadcaster)
	eventHandler := handlers.NewEventHandler(broadcaster)

	processor := worker.NewProcessor(sceneRepo, broadcaster, cfg.Server.StoragePath, cfg.Server.FFmpegBinary)
	runWorker := worker.NewWorker(runRepo, broadcaster, processor, 5*time.Second)
	go runWorker.Start()
	log.Println("run worker started (polling every 5 seconds)")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Add("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Add("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Add("Access-Control-Allow-Headers", "Content-Type, Authorization, Cache-Control, Accept")
		c.Writer.Header().Add("Access-Control-Expose-Headers", "Content-Type, Cache-Control, Connection")
		c.Writer.Header().Add("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "scenecast",
		})
	})

	router.Static("/outputs", utils.GetRunsPath())

	v1 := router.Group("/api/v1")
	{
		runs := v1.Group("/runs")
		{
			runs.GET("", runHandler.GetAll)
			runs.POST("", runHandler.Create)
			runs.GET("/:id", runHandler.GetByID)
			runs.GET("/:id/events", eventHandler.StreamRun)
		}

		v1.GET("/events", eventHandler.StreamAll)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.ServerPort)
	log.Printf("starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down gracefully...")
	runWorker.Stop()
	database.Close()
	log.Println("shutdown complete")
}
