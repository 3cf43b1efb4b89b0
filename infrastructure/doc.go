// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// - backend/rest: the REST article service client
// - cache/memory, cache/gocache: in-process caches
// - cache/redis, cache/sqlite: persistent per-user storage
// - http/standard: net/http client with GET retries and request id propagation
// - translate/mymemory: rate-limited MyMemory translation client
// - speech/cloudtts: Google Cloud Text-to-Speech engine and audio sink
// - logger/logrus, logger/zap: structured loggers
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "reading_progress_alice_42", data, 0)
//	value, err := cache.Get(ctx, "reading_progress_alice_42")
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # HTTP Client
//
// GET requests are retried on transport errors and 5xx responses:
//
//	client := standard.NewStandardHTTPClient(30*time.Second,
//	    standard.WithTransport(middleware.NewLoggingRoundTripper(nil, logger)),
//	)
//	backend := rest.NewClient("http://localhost:8000/api", client, logger)
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "debug", File: "reader.log"})
//	logger.Info("Opened reading session", map[string]interface{}{
//	    "session_id": id,
//	    "article_id": 42,
//	})
package infrastructure
