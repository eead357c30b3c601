package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"notification-service/internal/config"
	"notification-service/internal/domain"
	"notification-service/internal/events"
	amqphandler "notification-service/internal/handler/amqp"
	hrest "notification-service/internal/handler/http"
	wshandler "notification-service/internal/handler/ws"
	"notification-service/internal/repository"
	"notification-service/internal/router"
	"notification-service/internal/usecase"
	"notification-service/pkg/transport"
	ws "notification-service/pkg/ws"
)

func NewServer(cfg config.AppConfig) *http.Server {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// --- DB connection ---
	dbpool, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	// --- Init repos ---
	notifRepo := repository.NewNotificationRepository(dbpool, logger)
	tmplRepo := repository.NewTemplateRepository(dbpool, rdb, logger)
	prefRepo := repository.NewPreferenceRepository(dbpool, logger)

	// --- RabbitMQ: event publisher + business-event consumers ---
	// The service stays up without a broker; events are dropped and the
	// business-event listeners stay offline.
	var publisher events.Publisher = events.NopPublisher{}
	var amqpConn *amqp.Connection
	if cfg.AMQPUrl != "" {
		amqpConn, err = amqp.Dial(cfg.AMQPUrl)
		if err != nil {
			logger.Warn("rabbitmq unreachable, events disabled", zap.Error(err))
		} else {
			publisher, err = events.NewRabbitPublisher(amqpConn, logger)
			if err != nil {
				logger.Warn("failed to init event publisher, events disabled", zap.Error(err))
				publisher = events.NopPublisher{}
			}
		}
	}

	// --- WS manager and handler ---
	wsManager := ws.NewManager(logger)
	go wsManager.Heartbeat(30 * time.Second)
	wsHandler := wshandler.NewWSHandler(wsManager, logger)

	// --- Channel transports ---
	transports := transport.NewRegistry(
		transport.NewSMSClient(cfg.SMSGatewayURL, cfg.TransportTimeout, logger),
		transport.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.TransportTimeout, logger),
		transport.NewEmailClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.TransportTimeout, logger),
		transport.NewInAppClient(wsManager),
	)

	// --- Usecases ---
	timeouts := usecase.Timeouts{
		Template:  cfg.TemplateTimeout,
		Transport: cfg.TransportTimeout,
		Persist:   cfg.PersistTimeout,
	}
	sender := usecase.NewSendNotificationUsecase(notifRepo, tmplRepo, transports, publisher, timeouts, logger)
	retrier := usecase.NewRetryNotificationUsecase(notifRepo, sender, domain.DefaultRetryPolicy(), logger)
	queries := usecase.NewNotificationQueryUsecase(notifRepo, publisher, logger)
	tmplUC := usecase.NewTemplateUsecase(tmplRepo, publisher, logger)
	prefUC := usecase.NewPreferenceUsecase(prefRepo, logger)

	// --- Handlers ---
	notifHandler := hrest.NewNotificationHandler(sender, retrier, queries)
	tmplHandler := hrest.NewTemplateHandler(tmplUC)
	prefHandler := hrest.NewPreferenceHandler(prefUC)

	// --- Business-event consumers ---
	if amqpConn != nil {
		consumer := amqphandler.NewConsumer(amqpConn, sender, logger)
		if err := consumer.Start(context.Background()); err != nil {
			logger.Warn("failed to start business-event consumers", zap.Error(err))
		}
	}

	// --- HTTP routes ---
	r := chi.NewRouter()
	r = router.SetupRoutes(r, notifHandler, tmplHandler, prefHandler, wsHandler).(*chi.Mux)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
}
