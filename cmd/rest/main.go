package main

import (
	"context"
	"log"

	"ai-curriculum-be/internal/bootstrap"
	"ai-curriculum-be/internal/config"
	"ai-curriculum-be/internal/server"
	"ai-curriculum-be/internal/tracer"
	"ai-curriculum-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtlpEndpoint)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Archiver Service...")
		if err := container.ArchiverService.Consume(context.Background()); err != nil {
			log.Printf("Background Archiver Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
