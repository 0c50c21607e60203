package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medirural/internal/auth"
	"medirural/internal/config"
	"medirural/internal/events"
	httpapi "medirural/internal/http"
	"medirural/internal/repository"
	"medirural/internal/service"
	"medirural/internal/websocket"

	_ "medirural/docs"
)

type stores struct {
	medicines repository.MedicineRepository
	orders    repository.OrderRepository
	users     repository.UserRepository
	tx        repository.TxManager
	close     func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		return &stores{
			medicines: store,
			orders:    repository.NewMemoryOrders(store),
			users:     repository.NewMemoryUsers(store),
			tx:        repository.NewMemoryTx(store),
			close:     func(context.Context) error { return nil },
		}, nil
	}

	client, db, err := repository.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logger.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
	return &stores{
		medicines: repository.NewMongoMedicines(db),
		orders:    repository.NewMongoOrders(db),
		users:     repository.NewMongoUsers(db),
		tx:        repository.NewMongoTx(client),
		close:     client.Disconnect,
	}, nil
}

// @title MediRural Pharmacy API
// @version 1.0
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.WithError(err).Warn("Sentry disabled")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open store")
	}

	hub := websocket.NewHub(logger, cfg.CORSOrigins)
	go hub.Run(ctx)

	publishers := []service.OrderEventPublisher{hub}
	var producer *events.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		publishers = append(publishers, producer)
	} else {
		logger.Info("KAFKA_BROKERS not set, order events go to the dashboard feed only")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	accounts := service.NewAccountService(st.users, &auth.Bcrypt{Cost: cfg.BcryptCost}, tokens, logger)
	medicines := service.NewMedicineService(st.medicines, logger)
	orders := service.NewOrderService(st.medicines, st.orders, st.users, st.tx, logger, publishers...)

	if cfg.AdminEmail != "" {
		if _, err := accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, cfg.AdminPhone); err != nil {
			logger.WithError(err).Fatal("Failed to bootstrap admin account")
		}
	} else {
		logger.Warn("ADMIN_EMAIL not set, no admin account bootstrapped")
	}

	sweeper := service.NewSubscriptionSweeper(orders, cfg.SweepInterval, cfg.SweepBatch)
	go sweeper.Run(ctx)

	srv := httpapi.NewServer(accounts, medicines, orders, tokens, hub, logger, httpapi.Options{
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: cfg.CookieSecure,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server error")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Error("Failed to close Kafka producer")
		}
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to close store")
	}
}
