package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/data/redisStore"
	"github.com/akolanti/RAGChat/internal/handlers"
	"github.com/akolanti/RAGChat/internal/middleware"
	"github.com/akolanti/RAGChat/internal/rag/embedding"
	"github.com/akolanti/RAGChat/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/RAGChat/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/RAGChat/internal/rag/engine"
	"github.com/akolanti/RAGChat/internal/rag/llm"
	"github.com/akolanti/RAGChat/internal/rag/llm/gemini"
	"github.com/akolanti/RAGChat/internal/rag/llm/openaiLLM"
	"github.com/akolanti/RAGChat/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/RAGChat/internal/server"
	"github.com/akolanti/RAGChat/internal/session"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

var listenAddr string

func main() {

	//.env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	settings := config.LoadSettings()

	flag.StringVar(&listenAddr, "listen-addr", settings.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	embedder, provider, err := buildProviders(serviceContext, settings)
	if err != nil {
		logger.Error("Model provider failed to initialize. Shutting down.", "provider", settings.Provider, "error", err)
		return
	}

	vectorStore, err := qdrantDB.NewStore(serviceContext, settings, embedder)
	if err != nil {
		logger.Error("Vector store failed to initialize. Shutting down.", "error", err)
		return
	}

	//session memory - redis when reachable, in-process otherwise
	var sessionStore session.Store
	if redisClient := redisStore.NewStore(serviceContext, settings, config.RedisSessionStore); redisClient != nil {
		sessionStore = session.NewRedisSessionStore(redisClient)
	} else {
		logger.Error("Redis is offline, conversation memory will not survive restarts")
		sessionStore = session.NewInMemorySessionStore()
	}
	sessions := session.NewManager(sessionStore, settings.SessionTTL)

	queryEngine := engine.NewEngine(vectorStore, provider)

	handlers.Init(queryEngine, sessions, settings.IndexName)
	middleware.Init(settings.AuthToken)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildProviders(ctx context.Context, settings config.Settings) (embedding.Embedder, llm.Provider, error) {
	switch settings.Provider {
	case config.ProviderGemini:
		embedder, err := googleEmbedding.NewClient(ctx, settings)
		if err != nil {
			return nil, nil, err
		}
		provider, err := gemini.NewClient(ctx, settings)
		if err != nil {
			return nil, nil, err
		}
		return embedder, provider, nil
	default:
		return openaiEmbedding.NewClient(settings), openaiLLM.NewClient(settings), nil
	}
}
