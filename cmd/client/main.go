package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"multivendor-client/config"
	"multivendor-client/internal/actions"
	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/bridge"
	"multivendor-client/internal/broker"
	"multivendor-client/internal/i18n"
	"multivendor-client/internal/persist"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
	"multivendor-client/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := util.InitLogger(cfg.App.Env, cfg.App.Name); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting marketplace client")

	tp, err := util.InitTracer(cfg.App.Name, cfg.Observ.JaegerEndpoint, cfg.Observ.TracingEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	tr, err := i18n.New(i18n.DeviceLanguage(cfg.App.DeviceLanguage))
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	client := apiclient.New(apiclient.Options{
		BaseURL:               cfg.API.BaseURL,
		Timeout:               cfg.API.Timeout,
		APIKey:                cfg.API.Key,
		LangCode:              tr.Lang(),
		SettlementMaxAttempts: cfg.API.SettlementMaxAttempts,
		SettlementWait:        cfg.API.SettlementWait,
		SettlementMaxWait:     cfg.API.SettlementMaxWait,
	})

	storage, err := persist.Open(persist.Options{
		Type:          cfg.Storage.Type,
		Path:          cfg.Storage.Path,
		DatabaseURL:   cfg.Storage.DatabaseURL,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to open state storage: %v", err)
	}
	defer storage.Close()
	logger.Info("State storage opened", zap.String("type", cfg.Storage.Type))

	middleware := []store.Middleware{store.Logging(logger), store.Metrics()}

	var producer *broker.Producer
	var s *store.Store
	if cfg.Kafka.JournalEnabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicJournal)
		defer producer.Close()
		middleware = append(middleware, broker.Journal(producer,
			func() string { return s.State().Auth.UUID },
			broker.SensitiveEventTypes...))
		logger.Info("Action journal enabled", zap.String("topic", cfg.Kafka.TopicJournal))
	}

	s = store.New(reducers.Root, reducers.Initial(), middleware...)

	persister := store.NewPersister(storage, cfg.Storage.Key, cfg.Storage.PersistDebounce)
	detach := persister.Attach(s)
	defer detach()

	acts := actions.New(client, tr, persister, actions.Options{
		Platform:  cfg.App.DevicePlatform,
		PushToken: cfg.App.PushToken,
	})

	ctx := context.Background()
	if err := s.Do(ctx, acts.InitApp()); err != nil {
		logger.Warn("Startup did not complete", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var replay *worker.ReplayWorker
	if cfg.Kafka.ReplayEnabled {
		mirror := store.New(reducers.Root, reducers.Initial(), store.Metrics())
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicJournal, cfg.Kafka.ConsumerGroup)
		replay = worker.NewReplayWorker(consumer, mirror, "")
		go func() {
			if err := replay.Start(workerCtx); err != nil {
				logger.Error("Replay worker error", zap.Error(err))
			}
		}()
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := bridge.NewHandler(s, acts)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Bridge.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting bridge", zap.String("port", cfg.Bridge.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start bridge: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down client...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Bridge forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if replay != nil {
		replay.Stop()
	}

	if err := persister.Flush(shutdownCtx); err != nil {
		logger.Error("Failed to flush state", zap.Error(err))
	}

	logger.Info("Client exited")
}
