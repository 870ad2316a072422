package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resort/internal/app/middleware"
	appoutbox "resort/internal/app/outbox"
	"resort/internal/app/policies"
	"resort/internal/app/schedule"
	authsvc "resort/internal/app/services/auth"
	diningsvc "resort/internal/app/services/dining"
	"resort/internal/app/services/guests"
	"resort/internal/app/services/notifications"
	paymentsvc "resort/internal/app/services/payments"
	"resort/internal/app/services/pricingrules"
	reviewsvc "resort/internal/app/services/reviews"
	roomsvc "resort/internal/app/services/rooms"
	"resort/internal/app/uow"
	"resort/internal/app/wiring"
	domainauth "resort/internal/domain/auth"
	"resort/internal/domain/booking"
	"resort/internal/domain/dining"
	"resort/internal/domain/guest"
	"resort/internal/domain/payment"
	"resort/internal/domain/pricing"
	"resort/internal/domain/reviews"
	"resort/internal/domain/room"
	"resort/internal/infra/broker/amqp"
	"resort/internal/infra/broker/kafka"
	"resort/internal/infra/cache/redis"
	"resort/internal/infra/config"
	"resort/internal/infra/db/mongo"
	"resort/internal/infra/db/postgres"
	ginserver "resort/internal/infra/http/gin"
	"resort/internal/infra/inbox"
	"resort/internal/infra/obs"
	infraoutbox "resort/internal/infra/outbox"
	"resort/internal/infra/security"
	"resort/internal/infra/storage/memory"
	"resort/internal/infra/storage/s3"
)

const notificationsConsumer = "notifications"

type application struct {
	handlers ginserver.Handlers
	health   obs.HealthHandlers
	rooms    room.Repository
	currency string

	background []func(ctx context.Context) error
	closers    []func() error
	wg         sync.WaitGroup
}

type repositories struct {
	units    uow.UoWFactory
	rooms    room.Repository
	bookings booking.Repository
	rules    pricing.RuleRepository
	payments payment.Repository
	reviews  reviews.Repository
	dining   dining.Repository
	guests   guest.Repository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{currency: cfg.Currency}
	checks := map[string]obs.Check{}
	defer func() {
		if err != nil {
			app.close(logger)
		}
	}()

	repos, err := app.openRepositories(ctx, cfg, logger, checks)
	if err != nil {
		return nil, err
	}
	app.rooms = repos.rooms

	var sessions domainauth.SessionStore = memory.NewSessionStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store := redis.NewSessionStore(client)
		sessions = store
		checks["redis"] = store.Ping
		app.closers = append(app.closers, client.Close)
		logger.Info("session store: redis", "addr", cfg.RedisAddr)
	}

	var (
		idempotency middleware.IdempotencyStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		seen        notifications.Inbox         = memory.NewInbox()
		outboxStore *infraoutbox.Store
	)
	if cfg.MongoURI != "" {
		client, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		app.closers = append(app.closers, func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(closeCtx)
		})
		checks["mongo"] = client.Ping
		if idempotency, err = mongo.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL); err != nil {
			return nil, fmt.Errorf("idempotency store: %w", err)
		}
		if seen, err = inbox.NewStore(ctx, client.DB, notificationsConsumer); err != nil {
			return nil, fmt.Errorf("inbox store: %w", err)
		}
		if outboxStore, err = infraoutbox.NewStore(ctx, client.DB); err != nil {
			return nil, fmt.Errorf("outbox store: %w", err)
		}
	}

	var notifier policies.Notifier = amqp.LogNotifier{Logger: logger}
	if cfg.AMQPURL != "" {
		n, err := amqp.NewNotifier(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		notifier = n
		checks["amqp"] = n.Ping
		app.closers = append(app.closers, n.Close)
	}

	notificationsSvc := &notifications.Service{
		Notifier: notifier,
		Bookings: repos.bookings,
		Inbox:    seen,
		Resort:   cfg.ProjectName,
		Logger:   logger.With("component", "notifications"),
	}

	var sink appoutbox.Sink = memory.NewOutboxSink(notificationsSvc)
	if len(cfg.KafkaBrokers) > 0 && outboxStore != nil {
		if err := app.relayThroughKafka(cfg, logger, outboxStore, notificationsSvc); err != nil {
			return nil, err
		}
		sink = outboxStore
	} else if len(cfg.KafkaBrokers) > 0 {
		logger.Warn("KAFKA_BROKERS ignored: the outbox needs MONGO_URI")
	}
	box := appoutbox.NewBuffered(sink)

	commandBus, queryBus := wiring.Buses(wiring.Deps{
		Units:       repos.units,
		Outbox:      box,
		Idempotency: idempotency,
		Currency:    cfg.Currency,
		Logger:      logger,
	})

	issuer, err := security.NewJWTIssuer(cfg.SecretKey, cfg.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	authService := &authsvc.Service{
		Guests:     repos.guests,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     issuer,
		SessionTTL: cfg.AccessTokenTTL,
		Logger:     logger.With("component", "auth"),
	}

	roomService := &roomsvc.Service{
		Rooms:         repos.rooms,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		Logger:        logger.With("component", "rooms"),
	}
	if cfg.S3Endpoint != "" {
		uploader, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		roomService.Uploader = uploader
		checks["object_storage"] = uploader.Ping
	}

	app.handlers = ginserver.Handlers{
		Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
		Rooms: ginserver.RoomHandler{
			Service:  roomService,
			Queries:  queryBus,
			Currency: cfg.Currency,
			Logger:   logger,
		},
		Bookings: ginserver.BookingHandler{
			Commands: commandBus,
			Queries:  queryBus,
			Currency: cfg.Currency,
			Logger:   logger,
		},
		Pricing: ginserver.PricingHandler{
			Service:  &pricingrules.Service{Rooms: repos.rooms, Rules: repos.rules, Logger: logger},
			Queries:  queryBus,
			Currency: cfg.Currency,
			Logger:   logger,
		},
		Payments: ginserver.PaymentHandler{
			Commands: commandBus,
			Service:  &paymentsvc.Service{Payments: repos.payments, Logger: logger},
			Logger:   logger,
		},
		Guests: ginserver.GuestHandler{
			Service: &guests.Service{Guests: repos.guests, Passwords: authService, Logger: logger},
			Logger:  logger,
		},
		Reviews: ginserver.ReviewHandler{
			Service: &reviewsvc.Service{Reviews: repos.reviews, Bookings: repos.bookings, Logger: logger},
			Logger:  logger,
		},
		Dining: ginserver.DiningHandler{
			Service:  &diningsvc.Service{Items: repos.dining, Logger: logger},
			Currency: cfg.Currency,
			Logger:   logger,
		},
		Admin:          ginserver.AdminHandler{Queries: queryBus, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	app.health = obs.HealthHandlers{Checks: checks, Timeout: 2 * time.Second}

	sweeper := &schedule.ExpirySweeper{
		Units:         repos.units,
		Commands:      commandBus,
		PaymentWindow: cfg.BookingPaymentWindow,
		Logger:        logger.With("component", "expiry"),
	}
	interval := cfg.BookingSweepInterval
	app.background = append(app.background, func(ctx context.Context) error {
		return schedule.Every(ctx, interval, sweeper, logger)
	})
	return app, nil
}

// openRepositories uses PostgreSQL when DATABASE_URL is set and the
// in-memory store otherwise.
func (a *application) openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger, checks map[string]obs.Check) (repositories, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("storage: in-memory")
		rooms := memory.NewRoomRepository()
		bookings := memory.NewBookingRepository()
		rules := memory.NewPricingRuleRepository()
		payments := memory.NewPaymentRepository()
		return repositories{
			units:    memory.NewFactory(rooms, bookings, rules, payments),
			rooms:    rooms,
			bookings: bookings,
			rules:    rules,
			payments: payments,
			reviews:  memory.NewReviewsRepository(),
			dining:   memory.NewDiningRepository(),
			guests:   memory.NewGuestRepository(),
		}, nil
	}

	db, err := postgres.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, func() error { return postgres.Close(db) })
	if err := postgres.Migrate(ctx, db); err != nil {
		return repositories{}, fmt.Errorf("migrate postgres: %w", err)
	}
	checks["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, db) }
	logger.Info("storage: postgres")

	cur := cfg.Currency
	return repositories{
		units:    postgres.Factory{DB: db, Currency: cur},
		rooms:    postgres.NewRoomRepository(db, cur),
		bookings: postgres.NewBookingRepository(db, cur),
		rules:    postgres.NewPricingRuleRepository(db, cur),
		payments: postgres.NewPaymentRepository(db, cur),
		reviews:  postgres.NewReviewRepository(db),
		dining:   postgres.NewDiningRepository(db, cur),
		guests:   postgres.NewGuestRepository(db),
	}, nil
}

// relayThroughKafka publishes outbox records to Kafka and feeds the
// notification service from the same topics.
func (a *application) relayThroughKafka(cfg config.Config, logger *slog.Logger, store *infraoutbox.Store, svc *notifications.Service) error {
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaClientID, nil)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	a.closers = append(a.closers, producer.Close)

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, cfg.KafkaClientID, nil, kafka.EventHandler(svc.Handle), logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	a.closers = append(a.closers, consumer.Close)

	worker := &infraoutbox.Worker{
		Store:       store,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		BatchSize:   cfg.OutboxBatchSize,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Source:      cfg.KafkaClientID,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger.With("component", "outbox"),
	}
	topics := kafka.Topics(cfg.KafkaTopicPrefix, booking.EventConfirmed, booking.EventCancelled, payment.EventPaid)
	a.background = append(a.background, worker.Run, func(ctx context.Context) error {
		return consumer.Run(ctx, topics)
	})
	logger.Info("events: kafka", "brokers", cfg.KafkaBrokers, "topics", topics)
	return nil
}

func (a *application) startBackground(ctx context.Context, logger *slog.Logger) {
	for _, run := range a.background {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background task stopped", "error", err)
			}
		}()
	}
}

func (a *application) wait() {
	a.wg.Wait()
}

func (a *application) close(logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
