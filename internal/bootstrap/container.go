package bootstrap

import (
	"log"

	"ai-curriculum-be/internal/config"
	"ai-curriculum-be/internal/controller"
	"ai-curriculum-be/internal/pkg/logger"
	"ai-curriculum-be/internal/repository/implementation"
	"ai-curriculum-be/internal/repository/memory"
	"ai-curriculum-be/internal/service"
	"ai-curriculum-be/pkg/fetcher"
	"ai-curriculum-be/pkg/llm/gemini"

	pktNats "ai-curriculum-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	GenerationController controller.IGenerationController
	SessionController    controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ArchiverService service.IArchiverService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Storage
	liveIndex := memory.NewSessionRepository()
	sessionRepo := implementation.NewSessionRepository(db)

	// 4. Domain Services
	llmProvider := gemini.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.Model)
	log.Printf("[INFO] Using LLM Provider: GEMINI (%s)", cfg.Ai.Model)
	docFetcher := fetcher.NewHTTPFetcher()

	publisherService := service.NewPublisherService(pubSub, cfg.Keys.SessionTopic)
	archiverService := service.NewArchiverService(
		pubSub,
		cfg.Keys.SessionTopic,
		liveIndex,
		sessionRepo,
		natsPub,
	)

	generationService := service.NewGenerationService(llmProvider, docFetcher, cfg, sysLogger)
	sessionService := service.NewSessionService(sessionRepo)

	// 5. Controllers
	generationController := controller.NewGenerationController(generationService, publisherService, liveIndex)
	sessionController := controller.NewSessionController(sessionService)

	return &Container{
		GenerationController: generationController,
		SessionController:    sessionController,
		ArchiverService:      archiverService,
	}
}
