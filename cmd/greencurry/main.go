package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	bookingapp "greencurry/internal/app/booking"
	"greencurry/internal/app/notify"
	appoutbox "greencurry/internal/app/outbox"
	"greencurry/internal/app/payment"
	domainbooking "greencurry/internal/domain/booking"
	"greencurry/internal/domain/pricing"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/infra/broker/kafka"
	"greencurry/internal/infra/config"
	mongodb "greencurry/internal/infra/db/mongo"
	ginserver "greencurry/internal/infra/http/gin"
	"greencurry/internal/infra/obs"
	"greencurry/internal/infra/security"
	"greencurry/internal/infra/storage/memory"
	"greencurry/internal/infra/storage/s3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	stores, err := buildStores(ctx, cfg)
	if err != nil {
		logger.Error("store init failed", "mode", cfg.StoreMode, "error", err)
		os.Exit(1)
	}
	logger.Info("store ready", "mode", cfg.StoreMode)

	passwordHash, err := security.BcryptHasher{}.Hash(cfg.AdminPassword)
	if err != nil {
		logger.Error("admin password hash failed", "error", err)
		os.Exit(1)
	}
	issuer := security.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}

	service := &bookingapp.Service{
		Rooms:    stores.rooms,
		Bookings: stores.bookings,
		Engine:   pricing.NewEngine(pricing.DefaultFestivals()),
		Payments: payment.MockProcessor{Delay: cfg.PaymentDelay, Logger: logger},
		Mailer:   notify.LogMailer{Logger: logger},
		Outbox:   stores.outbox,
		Encoder:  appoutbox.JSONEventEncoder{},
		Logger:   logger,
		Clock:    time.Now,
	}

	var uploader s3.Uploader
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Error("s3 init failed", "error", err)
			os.Exit(1)
		}
		uploader = client
	}

	handlers := ginserver.Handlers{
		Auth: ginserver.AuthHandler{
			Username:     cfg.AdminUsername,
			PasswordHash: passwordHash,
			Hasher:       security.BcryptHasher{},
			Issuer:       issuer,
			Logger:       logger,
		},
		Rooms:      ginserver.RoomHandler{Rooms: stores.rooms, Service: service, Uploader: uploader},
		Bookings:   ginserver.BookingHandler{Service: service},
		Dashboard:  ginserver.DashboardHandler{Service: service},
		AdminGuard: ginserver.AdminGuard{Issuer: issuer}.Handle,
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: stores.ready}, handlers)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &appoutbox.Worker{
			Queue:       stores.queue,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		stores.close(shutdownCtx, logger)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type stores struct {
	rooms    rooms.Repository
	bookings domainbooking.Repository
	outbox   appoutbox.Outbox
	queue    appoutbox.Queue
	ready    func() error
	mongo    *mongodb.Client
}

func buildStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return stores{}, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			return stores{}, err
		}
		roomRepo, err := mongodb.NewRoomRepository(ctx, client.DB, rooms.DefaultCatalog())
		if err != nil {
			return stores{}, err
		}
		outboxStore := mongodb.NewOutboxStore(client.DB)
		return stores{
			rooms:    roomRepo,
			bookings: mongodb.NewBookingRepository(client.DB),
			outbox:   outboxStore,
			queue:    outboxStore,
			ready: func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx)
			},
			mongo: client,
		}, nil
	default:
		outboxStore := memory.NewOutbox()
		return stores{
			rooms:    memory.NewRoomRepository(rooms.DefaultCatalog()),
			bookings: memory.NewBookingRepository(),
			outbox:   outboxStore,
			queue:    outboxStore,
			ready:    func() error { return nil },
		}, nil
	}
}

func (s stores) close(ctx context.Context, logger *slog.Logger) {
	if s.mongo == nil {
		return
	}
	if err := s.mongo.Close(ctx); err != nil {
		logger.Error("mongo disconnect failed", "error", err)
	}
}
