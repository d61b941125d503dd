package bootstrap

import (
	"log"
	"os"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"sidekick-ai-be/internal/config"
	"sidekick-ai-be/internal/controller"
	"sidekick-ai-be/internal/pkg/logger"
	"sidekick-ai-be/internal/repository/memory"
	"sidekick-ai-be/internal/repository/unitofwork"
	"sidekick-ai-be/internal/service"
	"sidekick-ai-be/pkg/agent/loop"
	"sidekick-ai-be/pkg/agent/registry"
	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/agent/tools"
	"sidekick-ai-be/pkg/embedding"
	"sidekick-ai-be/pkg/llm/factory"

	pktNats "sidekick-ai-be/pkg/nats"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	WorkspaceController controller.IWorkspaceController
	DocumentController  controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	agentLogger := initAgentLogger(cfg.App.AgentLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 3. Agent assembly
	registryBuilder := registry.NewBuilder(builtinTools(cfg)...)
	searcher := service.NewRetrievalSearcher(uowFactory, embeddingProvider)
	decisionStep := loop.NewLLMDecisionStep(llmProvider, cfg.Agent.DecisionTimeout)
	turnStore := service.NewTurnStore(uowFactory)
	exchangeGuard := memory.NewExchangeGuard()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.IndexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IndexTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	chatService := service.NewChatService(
		uowFactory,
		registryBuilder,
		searcher,
		decisionStep,
		turnStore,
		exchangeGuard,
		natsPub,
		cfg.Agent,
		agentLogger,
	)
	workspaceService := service.NewWorkspaceService(uowFactory, natsPub, sysLogger)
	documentService := service.NewDocumentService(uowFactory, publisherService, sysLogger)

	var auditService service.IAuditService
	if natsSub != nil {
		auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
		auditService = service.NewAuditService(natsSub, auditLogger)
	}

	// 5. Controllers
	return &Container{
		ChatController:      controller.NewChatController(chatService),
		WorkspaceController: controller.NewWorkspaceController(workspaceService),
		DocumentController:  controller.NewDocumentController(documentService),
		ConsumerService:     consumerService,
		AuditService:        auditService,
	}
}

// builtinTools assembles the built-in tool set from configuration. Tools
// whose credentials are absent are simply not registered, so the model
// never sees them.
func builtinTools(cfg *config.Config) []tool.Tool {
	workDir := cfg.App.WorkDir
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		log.Fatalf("[FATAL] Failed to create agent work dir %s: %v", workDir, err)
	}

	builtins := []tool.Tool{
		tools.NewReadFileTool(workDir),
		tools.NewWriteFileTool(workDir),
		tools.NewListFilesTool(workDir),
		tools.NewWikipediaTool(),
	}
	if cfg.Keys.Serper != "" {
		builtins = append(builtins, tools.NewWebSearchTool(cfg.Keys.Serper))
	}
	if cfg.Keys.PushoverUser != "" && cfg.Keys.PushoverToken != "" {
		builtins = append(builtins, tools.NewPushTool(cfg.Keys.PushoverUser, cfg.Keys.PushoverToken))
	}
	if cfg.Agent.CodeExecutionEnabled {
		builtins = append(builtins, tools.NewCodeTool(workDir, ""))
	}
	return builtins
}

// initAgentLogger writes control loop diagnostics to their own file so tool
// failures and decision errors are easy to trace per exchange.
func initAgentLogger(path string) *log.Logger {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] Failed to create agent log dir: %v", err)
		return log.Default()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("[WARN] Failed to open agent log file: %v", err)
		return log.Default()
	}
	return log.New(f, "", log.LstdFlags|log.Lmicroseconds)
}
