package main

import (
	"context"
	"log"

	"sidekick-ai-be/internal/bootstrap"
	"sidekick-ai-be/internal/config"
	"sidekick-ai-be/internal/server"
	"sidekick-ai-be/internal/tracer"
	"sidekick-ai-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		log.Panicf("Unable to migrate database: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Document Index Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	if container.AuditService != nil {
		if err := container.AuditService.Start(); err != nil {
			log.Printf("Background Audit Trail Error: %v", err)
		}
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
