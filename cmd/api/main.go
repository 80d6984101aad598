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

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-profile-flow/internal/config"
	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/cache"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/database"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/logger"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/mail"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/memory"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/queue"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/worker"
	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ configuração inválida: %v", err)
	}

	lg := logger.New(cfg.LogLevel, cfg.LogFile)
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("aplicação encerrada com erro", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	// 1. Banco
	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	customerRepo := database.NewCustomerRepository(db)
	templateRepo := database.NewTemplateConfigRepository(db)

	// 2. Estado das conversas
	var (
		states    entity.ConversationStore
		processed entity.TriggerSet
		seen      entity.MessageLog
		rdb       *redis.Client
	)
	switch cfg.StateBackend {
	case config.StateBackendRedis:
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		states = cache.NewConversationStore(rdb, 0)
		processed = cache.NewTriggerSet(rdb)
		seen = cache.NewMessageLog(rdb, memory.DefaultMessageLogSize, 24*time.Hour)
	default:
		states = memory.NewConversationStore()
		processed = memory.NewTriggerSet()
		seen = memory.NewMessageLog(memory.DefaultMessageLogSize)
	}
	lg.Info("estado das conversas configurado", zap.String("backend", cfg.StateBackend))

	// 3. Gateway e métricas
	waClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken)
	metrics := middleware.NewFlowRecorder()
	locker := usecase.NewPhoneLocker()

	g, gctx := errgroup.WithContext(ctx)

	// 4. Eventos (opcional)
	var (
		events *queue.RabbitMQProducer
		rabbit *queue.RabbitMQ
	)
	if cfg.RabbitMQURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		events = queue.NewProducer(rabbit.Ch)

		consumerCh, err := rabbit.Conn.Channel()
		if err != nil {
			return err
		}
		defer consumerCh.Close()

		notifier := mail.NewNotifier(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.OperatorEmail)
		consumer := queue.NewWorker(consumerCh, notifier, lg.Named("queue"))
		g.Go(func() error {
			return consumer.Start(gctx, queue.QueueName)
		})
	} else {
		lg.Warn("⚠️ RABBITMQ_URL vazio: eventos de perfil desativados")
	}

	// 5. UseCases
	var publisher usecase.ProfileEventPublisher
	if events != nil {
		publisher = events
	}
	engine := usecase.NewEngine(
		usecase.FlowRules{MaxInvalidAttempts: cfg.FlowMaxInvalidAttempts},
		states, seen, customerRepo, waClient, publisher, metrics, locker, lg.Named("flow"),
	)

	customerUC := usecase.NewCustomerUseCase(customerRepo, cfg.DefaultCountryCode)
	templateUC := usecase.NewTemplateConfigUseCase(templateRepo)
	factory := func(phoneNumberID, accessToken string) usecase.TemplateMessenger {
		return waClient.WithCredentials(phoneNumberID, accessToken)
	}
	campaignUC := usecase.NewCampaignUseCase(templateUC, factory, states, locker, metrics, cfg.DefaultCountryCode, lg.Named("campaign"))

	// 6. Disparo proativo
	if cfg.TriggerEnabled {
		trigger := usecase.NewProfileTrigger(customerRepo, states, processed, waClient, locker, metrics,
			usecase.ProfileTriggerConfig{
				TemplateName: cfg.TriggerTemplateName,
				LanguageCode: cfg.TriggerTemplateLanguage,
				Parameters:   cfg.TriggerTemplateParams,
			}, lg.Named("trigger"))
		triggerWorker := worker.NewProfileTriggerWorker(trigger, cfg.TriggerInterval, lg.Named("trigger"))
		g.Go(func() error {
			triggerWorker.Start(gctx)
			return nil
		})
	}

	// 7. HTTP
	var rabbitConn *amqp.Connection
	if rabbit != nil {
		rabbitConn = rabbit.Conn
	}
	router := newRouter(routes{
		webhook:   handlers.NewWebhookHandler(engine, cfg.WhatsAppVerifyToken, cfg.WhatsAppAppSecret, lg.Named("webhook")),
		customers: handlers.NewCustomerHandler(customerUC),
		templates: handlers.NewTemplateConfigHandler(templateUC),
		campaigns: handlers.NewCampaignHandler(campaignUC),
		health:    handlers.NewHealthHandler(db, rabbitConn, rdb, cfg.StateBackend),
	}, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		lg.Info("🔥 servidor rodando", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		lg.Info("encerrando servidor")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
