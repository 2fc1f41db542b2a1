package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"liftlog/api/routes"
	"liftlog/config"
	"liftlog/db"
	"liftlog/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	if err := services.InitRedis(); err != nil {
		panic("Failed to connect to Redis: " + err.Error())
	}
	defer services.CloseRedis()
	if services.RedisClient == nil {
		log.Println("WARNING: Redis is not configured; cache disabled, rate limiter fails open")
	}

	if err := services.InitRabbitMQ(); err != nil {
		// Broker is optional: workout pushes fall back to direct WebSocket.
		log.Printf("WARNING: RabbitMQ unavailable: %v", err)
	} else {
		defer services.CloseRabbitMQ()
		if err := services.StartWorkoutEventConsumer(context.Background(), "workout_push"); err != nil {
			log.Printf("WARNING: failed to start workout event consumer: %v", err)
		}
	}

	router := gin.Default()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.PublicApi(router)

	addr := ":8080"
	if config.AppConfig.Backend.Port != 0 {
		addr = fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
