package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	USER_ID_KEY    = "userId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//embedding schema - every record in an index must carry this dimensionality
	EmbeddingOutputDimensionality int32 = 1536

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1 //2-5 is preferred for prod according to documentation

	//chunking
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100

	//retrieval
	SearchTopK    = 5
	HistoryWindow = 1 //conversation turns handed to the llm

	//resilient upsert
	UpsertBatchSize     = 10
	InterBatchDelay     = 1 * time.Second
	DefaultRetryAfter   = 30 * time.Second
	MaxRateLimitRetries = 5

	//llm
	ModelTemperature float32 = 0.5

	QueryTimeout  = 60 * time.Second
	IngestTimeout = 30 * time.Minute

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisSessionStore = 0

	SessionTTL = 10 * time.Minute
)
