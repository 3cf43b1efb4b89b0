// ABOUTME: Main entry point for the PaperRead reader server
// ABOUTME: Wires configuration, storage, backend, translation, speech and handlers, then serves HTTP

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paperread-app/api"
	"paperread-app/api/handlers"
	"paperread-app/api/middleware"
	"paperread-app/core/annotation"
	"paperread-app/core/catalog"
	coreconfig "paperread-app/core/config"
	"paperread-app/core/dictation"
	"paperread-app/core/documents"
	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/importer"
	"paperread-app/core/interfaces"
	"paperread-app/core/readaloud"
	"paperread-app/core/reader"
	"paperread-app/core/storage"
	"paperread-app/core/wordgraph"
	"paperread-app/core/workers"
	"paperread-app/infrastructure/backend/rest"
	"paperread-app/infrastructure/cache/gocache"
	"paperread-app/infrastructure/cache/memory"
	"paperread-app/infrastructure/cache/redis"
	"paperread-app/infrastructure/cache/sqlite"
	stdhttp "paperread-app/infrastructure/http/standard"
	logruslogger "paperread-app/infrastructure/logger/logrus"
	zaplogger "paperread-app/infrastructure/logger/zap"
	"paperread-app/infrastructure/speech/cloudtts"
	"paperread-app/infrastructure/translate/mymemory"
	"paperread-app/pkg/config"
	"paperread-app/pkg/featureflags"

	"github.com/joho/godotenv"
)

const (
	sessionIdleTimeout = 30 * time.Minute
	sweepInterval      = time.Minute
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, syncLogs := newLogger(cfg.Log)
	defer syncLogs()

	flags := featureflags.NewEnvManager("FEATURE_")
	ctx := featureflags.WithManager(context.Background(), flags)

	logger.Info("Starting PaperRead", map[string]interface{}{
		"port":         cfg.Server.Port,
		"backend":      cfg.Backend.BaseURL,
		"storage_type": cfg.Storage.Type,
		"speech":       cfg.Speech.Enabled,
		"flags":        flags.GetAllFlags(),
	})

	store, closeStore := newStorage(cfg.Storage, logger)
	defer closeStore()

	httpClient := stdhttp.NewStandardHTTPClient(cfg.Backend.Timeout,
		stdhttp.WithTransport(middleware.NewLoggingRoundTripper(nil, logger)),
	)
	backend := rest.NewClient(cfg.Backend.BaseURL, httpClient, logger)

	saves := workers.NewSaveQueue(backend, logger, workers.DefaultQueueConfig())
	if err := saves.Start(); err != nil {
		log.Fatalf("Failed to start annotation save queue: %v", err)
	}

	prefs := storage.NewAdapter(store, logger)
	deps := reader.Dependencies{
		Backend: backend,
		Storage: prefs,
		Saves:   saves,
		Logger:  logger,
	}

	if featureflags.IsEnabled(ctx, featureflags.Translation) {
		translator := mymemory.NewClient(httpClient, logger,
			mymemory.WithEndpoint(cfg.Translate.URL),
			mymemory.WithLangPair(cfg.Translate.LangPair),
			mymemory.WithInterval(cfg.Translate.Interval),
		)
		deps.Translations = annotation.NewTranslations(translator, gocache.New(10*time.Minute), logger, cfg.Translate.CacheTTL)
	}

	var (
		audio     *cloudtts.CacheSink
		dictSpeak dictation.EngineFactory
	)
	if cfg.Speech.Enabled && featureflags.IsEnabled(ctx, featureflags.ReadAloud) {
		synth, err := cloudtts.NewGoogleSynthesizer(ctx, cfg.Speech.Voice, cfg.Speech.Language)
		if err != nil {
			logger.Error("Failed to create speech synthesizer, read-aloud disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer synth.Close()
			audio = cloudtts.NewCacheSink(store, cfg.Speech.AudioTTL)
			deps.NewEngine = func(sessionID string) interfaces.SpeechEngine {
				return cloudtts.NewEngine(synth, audio, logger)
			}
			dictSpeak = func(practiceID string) interfaces.SpeechEngine {
				return cloudtts.NewEngine(synth, audio, logger)
			}
		}
	}

	speech := readaloud.DefaultOptions()
	speech.Lang = cfg.Speech.Language
	registry := reader.NewRegistry(deps,
		coreconfig.WithPageSize(cfg.Reader.PageSize),
		coreconfig.WithSpeech(speech),
		coreconfig.WithAnnotationSync(featureflags.IsEnabled(ctx, featureflags.ServerAnnotationSync)),
	)

	apiConfig := api.APIConfig{Logger: logger}
	if featureflags.IsEnabled(ctx, featureflags.RateLimit) {
		apiConfig.RateLimit = cfg.Server.RateLimit
		apiConfig.RateBurst = cfg.Server.RateBurst
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	sessions := handlers.NewSessionHandler(registry)
	sessions.RegisterRoutes(humaAPI)
	sessions.RegisterAnnotationRoutes(humaAPI)
	sessions.RegisterReadAloudRoutes(humaAPI)
	if audio != nil {
		handlers.NewAudioHandler(audio).RegisterRoutes(humaAPI)
	}

	var imports handlers.ImportService = importDisabled{}
	if featureflags.IsEnabled(ctx, featureflags.Import) {
		imports = importer.NewService(httpClient, backend, logger)
	}
	handlers.NewLibraryHandler(catalog.NewService(backend, store, logger), imports).RegisterRoutes(humaAPI)

	if featureflags.IsEnabled(ctx, featureflags.Dictation) {
		handlers.NewDictationHandler(dictation.NewService(dictSpeak, logger)).RegisterRoutes(humaAPI)
	}

	handlers.NewDocumentHandler(documents.NewService(prefs, logger)).RegisterRoutes(humaAPI)
	handlers.NewPreferenceHandler(prefs).RegisterRoutes(humaAPI)
	handlers.NewWordGraphHandler(wordgraph.New()).RegisterRoutes(humaAPI)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	go sweepSessions(sweepCtx, registry, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stopSweep()
	registry.CloseAll()
	if err := saves.Flush(shutdownCtx); err != nil {
		logger.Warn("Pending annotation saves were not flushed", map[string]interface{}{
			"error": err.Error(),
			"stats": saves.Stats(),
		})
	}
	if err := saves.Stop(); err != nil {
		logger.Error("Failed to stop annotation save queue", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

func newLogger(cfg config.LogConfig) (interfaces.Logger, func()) {
	if cfg.Backend == "zap" {
		z, err := zaplogger.New(cfg.Level)
		if err != nil {
			log.Fatalf("Failed to create zap logger: %v", err)
		}
		return z, func() { _ = z.Sync() }
	}
	return logruslogger.New(logruslogger.Options{Level: cfg.Level, File: cfg.File}), func() {}
}

// newStorage returns the cache holding per-user reading state, falling back
// to memory when the configured backend is unavailable
func newStorage(cfg config.StorageConfig, logger interfaces.Logger) (interfaces.Cache, func()) {
	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis storage, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using Redis storage", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache, func() { _ = redisCache.Close() }
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLitePath, logger)
		if err != nil {
			logger.Error("Failed to open SQLite storage, falling back to memory", map[string]interface{}{
				"path":  cfg.SQLitePath,
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using SQLite storage", map[string]interface{}{
			"path": cfg.SQLitePath,
		})
		return sqliteCache, func() { _ = sqliteCache.Close() }
	}

	logger.Info("Using memory storage", nil)
	return memory.NewMemoryCache(), func() {}
}

func sweepSessions(ctx context.Context, registry *reader.Registry, logger interfaces.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := registry.Sweep(now, sessionIdleTimeout); n > 0 {
				logger.Info("Closed idle reading sessions", map[string]interface{}{
					"closed":    n,
					"remaining": registry.Len(),
				})
			}
		}
	}
}

// importDisabled rejects imports when the feature is switched off
type importDisabled struct{}

func (importDisabled) ImportURL(context.Context, string) (*domain.ArticleSummary, error) {
	return nil, &coreerrors.UnsupportedError{Feature: "import"}
}

func (importDisabled) ImportText(context.Context, string, string) (*domain.ArticleSummary, error) {
	return nil, &coreerrors.UnsupportedError{Feature: "import"}
}
