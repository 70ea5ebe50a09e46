package bootstrap

import (
	"log"
	"os"
	"path/filepath"

	"wevysya-assistant-be/internal/config"
	"wevysya-assistant-be/internal/controller"
	"wevysya-assistant-be/internal/pkg/logger"
	"wevysya-assistant-be/internal/repository/memory"
	"wevysya-assistant-be/internal/repository/unitofwork"
	"wevysya-assistant-be/internal/service"
	"wevysya-assistant-be/pkg/assistant/action"
	"wevysya-assistant-be/pkg/assistant/intent"
	"wevysya-assistant-be/pkg/assistant/retrieval"
	"wevysya-assistant-be/pkg/assistant/voice"
	"wevysya-assistant-be/pkg/embedding"
	"wevysya-assistant-be/pkg/llm/factory"
	"wevysya-assistant-be/pkg/speech"

	pkgNats "wevysya-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	KnowledgeController controller.IKnowledgeController
	VoiceController     controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService service.IActivityService

	// Shutdown surfaces
	Orchestrator  *voice.Orchestrator
	NatsPublisher *pkgNats.Publisher
	Logger        *logger.ZapLogger
}

// initAssistantLogger gives the routing core its own file log so pipeline
// traces do not drown the request log. Falls back to stdout when the file
// cannot be opened.
func initAssistantLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "assistant.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[ASSISTANT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	zapLogger := sysLogger.Zap()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
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

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 5. Routing core
	assistantLogger := initAssistantLogger()
	knowledgeGateway := service.NewKnowledgeGateway(uowFactory)
	memberGateway := service.NewMemberGateway(uowFactory)
	registry := action.NewRegistry()

	retriever := retrieval.NewRetriever(knowledgeGateway, embeddingProvider, assistantLogger)
	classifier := intent.NewClassifier(llmProvider, registry, cfg.Assistant.ClassifyTimeout, assistantLogger)
	engine := action.NewEngine(registry, memberGateway, assistantLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopicName,
		uowFactory,
		embeddingProvider,
		zapLogger,
	)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, knowledgeGateway, zapLogger)

	var activityService service.IActivityService
	if natsSub != nil {
		activityService = service.NewActivityService(natsSub, zapLogger)
	}

	assistantService := service.NewAssistantService(
		retriever,
		classifier,
		engine,
		registry,
		natsPub,
		zapLogger,
	)

	// 7. Voice state machine. Capture happens on the client; the server-side
	// recorder resolves toggles to no speech so the state machine still
	// behaves correctly for misdirected triggers.
	voiceSessions := memory.NewVoiceSessionRepository()
	voiceCfg := voice.DefaultConfig()
	voiceCfg.CaptureTimeout = cfg.Assistant.CaptureTimeout
	voiceCfg.NavigationDelay = cfg.Assistant.NavigationDelay

	orchestrator := voice.NewOrchestrator(
		assistantService,
		speech.NopRecorder{},
		speech.NopSpeaker{},
		voiceSessions,
		nil,
		voiceCfg,
		assistantLogger,
	)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		VoiceController:     controller.NewVoiceController(orchestrator),

		ConsumerService: consumerService,
		ActivityService: activityService,

		Orchestrator:  orchestrator,
		NatsPublisher: natsPub,
		Logger:        sysLogger,
	}
}
