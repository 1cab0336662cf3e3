package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Parshant679/event-booking/internal/access"
	"github.com/Parshant679/event-booking/internal/auth"
	"github.com/Parshant679/event-booking/internal/booking"
	"github.com/Parshant679/event-booking/internal/booking/booking_api"
	bookingdb "github.com/Parshant679/event-booking/internal/booking/db"
	"github.com/Parshant679/event-booking/internal/config"
	"github.com/Parshant679/event-booking/internal/database"
	"github.com/Parshant679/event-booking/internal/database/migrations"
	"github.com/Parshant679/event-booking/internal/events"
	eventdb "github.com/Parshant679/event-booking/internal/events/db"
	"github.com/Parshant679/event-booking/internal/events/event_api"
	"github.com/Parshant679/event-booking/internal/kafka"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/notify"
	"github.com/Parshant679/event-booking/internal/server"
	"github.com/Parshant679/event-booking/internal/sse"
	qr "github.com/Parshant679/event-booking/internal/tickets/qr_genrator"
	"github.com/Parshant679/event-booking/internal/users"
	userdb "github.com/Parshant679/event-booking/internal/users/db"
	"github.com/Parshant679/event-booking/internal/users/user_api"
)

// noticeQueue is the backend-specific half of the notification pipeline.
type noticeQueue struct {
	producer    notify.Producer
	deadLetter  notify.Producer
	newConsumer func() (notify.Consumer, error)
	close       func()
}

func kafkaNoticeQueue(cfg *config.Config, log *logger.Logger) (*noticeQueue, error) {
	brokers := cfg.Kafka.Brokers
	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", brokers))

	topics := []string{cfg.Kafka.NoticeTopic, cfg.Kafka.DeadLetterTopic}
	if err := kafka.EnsureTopicsExist(brokers, topics, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}

	writer := kafka.NewWriter(brokers)
	return &noticeQueue{
		producer:   &notify.KafkaProducer{Writer: writer, Topic: cfg.Kafka.NoticeTopic},
		deadLetter: &notify.KafkaProducer{Writer: writer, Topic: cfg.Kafka.DeadLetterTopic},
		newConsumer: func() (notify.Consumer, error) {
			reader := kafka.NewReader(brokers, cfg.Kafka.NoticeTopic, cfg.Kafka.GroupID)
			return &notify.KafkaConsumer{Reader: reader, Logger: log}, nil
		},
		close: func() {
			if err := writer.Close(); err != nil {
				log.Error("KAFKA", fmt.Sprintf("Failed to close writer: %v", err))
			}
		},
	}, nil
}

func redisNoticeQueue(ctx context.Context, cfg *config.Config, log *logger.Logger) (*noticeQueue, error) {
	client, err := database.ConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		return nil, err
	}

	pending := &notify.RedisQueue{
		Client:        client,
		Key:           cfg.Redis.QueueKey,
		ProcessingKey: cfg.Redis.ProcessingKey,
		BlockTimeout:  cfg.Redis.BlockingTimeout,
		Logger:        log,
	}
	// nothing is in flight before the workers start
	if moved, err := pending.Recover(ctx); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Could not recover in-flight notices: %v", err))
	} else if moved > 0 {
		log.Info("REDIS", fmt.Sprintf("Recovered %d in-flight notices", moved))
	}

	return &noticeQueue{
		producer:    pending,
		deadLetter:  &notify.RedisQueue{Client: client, Key: cfg.Redis.DeadLetterKey, Logger: log},
		newConsumer: func() (notify.Consumer, error) { return pending, nil },
		close:       func() { client.Close() },
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Dir, "event-booking", logger.ParseLevel(cfg.Log.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting Event Booking service initialization")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.Secret == "" {
		log.Fatal("CONFIG", "AUTH_JWT_SECRET not set")
	}
	if cfg.Ticket.QRSecret == "" {
		log.Warn("CONFIG", "QR_SECRET_KEY not set, ticket QR codes are signed with an empty key")
	}
	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("AUTH", err.Error())
	}

	bunDB, err := database.ConnectPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.NewRunner(bunDB, log).Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
		}
	}

	var queue *noticeQueue
	switch cfg.Notify.Backend {
	case "redis":
		queue, err = redisNoticeQueue(ctx, cfg, log)
	case "kafka":
		queue, err = kafkaNoticeQueue(cfg, log)
	default:
		err = fmt.Errorf("unknown NOTIFY_BACKEND %q", cfg.Notify.Backend)
	}
	if err != nil {
		log.Fatal("NOTIFY", err.Error())
	}
	defer queue.close()
	log.Info("NOTIFY", fmt.Sprintf("Notice queue backend: %s", cfg.Notify.Backend))

	dispatcher := notify.NewDispatcher(queue.producer, log, cfg.Notify.EnqueueTimeout)

	userStore := &userdb.DB{Bun: bunDB}
	eventStore := &eventdb.DB{Bun: bunDB}
	gate := access.NewGate(userStore, log)

	eventService := events.NewEventService(eventStore, gate, dispatcher, log)
	eventService.StrictOwnership = cfg.Database.StrictOwnership

	bookingService := booking.NewBookingService(bunDB, eventStore, &bookingdb.DB{Bun: bunDB}, gate, dispatcher, log)
	bookingService.Tickets = qr.NewQRGenerator(cfg.Ticket.QRSecret)
	bookingService.TxOptions = &sql.TxOptions{Isolation: cfg.Database.Isolation}
	bookingService.TxTimeout = cfg.Database.TxTimeout
	availability := sse.NewAvailabilityEmitter()
	bookingService.Feed = availability

	router := server.NewRouter(server.Handlers{
		Users:    user_api.NewHandler(users.NewUserService(userStore, log), log),
		Events:   event_api.NewHandler(eventService, log),
		Live:     event_api.NewSSEHandler(eventService, availability, log),
		Bookings: booking_api.NewHandler(bookingService, log),
	}, issuer, log)

	pool := &notify.WorkerPool{
		NewConsumer:   queue.newConsumer,
		Requeue:       queue.producer,
		DeadLetter:    queue.deadLetter,
		Deliverer:     &notify.LogDeliverer{Logger: log},
		Workers:       cfg.Notify.Workers,
		RetryBudget:   cfg.Notify.RetryBudget,
		MaxRedelivery: cfg.Notify.MaxRedelivery,
		Logger:        log,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		if err := pool.Run(workerCtx); err != nil {
			log.Error("WORKER", fmt.Sprintf("Worker pool failed: %v", err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Event Booking service running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	}

	// requests are drained, so no more notices will be enqueued
	stopWorkers()
	workers.Wait()
	log.Info("APP", "✅ Event Booking service shutdown complete")
}
