package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	segmentio "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	httpHandlers "github.com/freelancermujtabaa/PicassoPet/internal/adapters/http/handlers"
	kaf "github.com/freelancermujtabaa/PicassoPet/internal/adapters/kafka"
	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/ledger"
	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/mapping"
	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/printful"
	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/shopify"
	"github.com/freelancermujtabaa/PicassoPet/internal/app/fulfillment"
	"github.com/freelancermujtabaa/PicassoPet/internal/config"
	"github.com/freelancermujtabaa/PicassoPet/internal/logging"
	"github.com/freelancermujtabaa/PicassoPet/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.InitLogger()
	metrics.Register()
	logging.LogInfo("starting fulfillment-service", logrus.Fields{
		"pid":  os.Getpid(),
		"port": cfg.HTTP.Port,
		"mode": cfg.App.Mode,
	})

	// Fail closed: without the shared secret every webhook would be
	// unverifiable, so refuse to start instead of skipping verification.
	if cfg.Shopify.WebhookSecret == "" {
		logging.LogError("refusing to start", errors.New("SHOPIFY_WEBHOOK_SECRET is not set"), logrus.Fields{})
		os.Exit(1)
	}
	verifier := shopify.NewVerifier(cfg.Shopify.WebhookSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	printfulClient := printful.NewClient(printful.Config{
		BaseURL: cfg.Printful.BaseURL,
		APIKey:  cfg.Printful.APIKey,
		Timeout: cfg.Printful.Timeout,
	})

	resolver := newResolver(cfg, printfulClient)

	led, pool := newLedger(ctx, cfg)
	if pool != nil {
		defer pool.Close()
	}

	svc := fulfillment.NewService(resolver, printfulClient, led, cfg.Printful.Timeout)

	var queue fulfillment.ItemQueue
	var consumer kaf.Consumer
	if cfg.App.Mode == "async" {
		prod := mustKafkaProducer(cfg)
		defer prod.Close()
		queue = kaf.NewItemQueue(prod, cfg.Kafka.Topic)

		consumer = kaf.NewConsumer(kaf.ConsumerConfig{
			Brokers:           cfg.Kafka.Brokers,
			ClientID:          "fulfillment-service",
			MinBytes:          1 << 10,
			MaxBytes:          10 << 20,
			MaxWait:           100 * time.Millisecond,
			SessionTimeout:    10 * time.Second,
			RebalanceTimeout:  10 * time.Second,
			HeartbeatInterval: 3 * time.Second,
			StartOffset:       segmentio.FirstOffset,
			MaxRetries:        5,
			Backoff:           200 * time.Millisecond,
		})
		go runSubmitter(ctx, consumer, cfg, svc)
	}

	h := httpHandlers.NewWebhookHandlers(verifier, svc, queue)
	mh := httpHandlers.NewMappingsHandler(resolver)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.StripSlashes, middleware.Timeout(25*time.Second))
	r.Get("/health", httpHandlers.HealthHandler)
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				logging.LogError("readiness: db not ready", err, logrus.Fields{})
				http.Error(w, "db not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/mappings", mh.ListMappings)
	r.Route("/webhooks/shopify", func(r chi.Router) {
		r.Post("/orders/create", h.OrderCreated)
		r.Post("/orders/updated", h.OrderUpdated)
		r.Get("/test", httpHandlers.WebhookTest)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.LogInfo("http server listening", logrus.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.LogError("http server ListenAndServe failed", err, logrus.Fields{"addr": srv.Addr})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logging.LogInfo("shutdown signal received", logrus.Fields{"signal": sig.String()})

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logging.LogError("kafka consumer close failed", err, logrus.Fields{})
		}
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logging.LogError("http server shutdown failed", err, logrus.Fields{})
	} else {
		logging.LogInfo("http server shutdown complete", logrus.Fields{})
	}
	logging.LogInfo("bye", logrus.Fields{})
}

// newResolver wires the SKU-join fallback only when both catalog
// credentials are present; otherwise the static table stands alone.
func newResolver(cfg config.Config, printfulClient *printful.Client) *mapping.Resolver {
	rc := mapping.ResolverConfig{
		TTL:         cfg.Mapping.CacheTTL,
		FailBackoff: cfg.Mapping.FailBackoff,
	}
	if cfg.Shopify.Domain != "" && cfg.Shopify.AdminToken != "" && cfg.Printful.APIKey != "" {
		rc.Storefront = shopify.NewCatalogClient(shopify.CatalogConfig{
			Domain:     cfg.Shopify.Domain,
			Token:      cfg.Shopify.AdminToken,
			APIVersion: cfg.Shopify.APIVersion,
		})
		rc.Provider = printfulClient
	} else {
		logging.LogWarn("SKU-join mapping disabled: catalog credentials missing", logrus.Fields{})
	}
	return mapping.NewResolver(rc)
}

func newLedger(ctx context.Context, cfg config.Config) (fulfillment.Ledger, *pgxpool.Pool) {
	switch cfg.App.LedgerBackend {
	case "redis":
		logging.LogInfo("redis ledger enabled", logrus.Fields{"addr": cfg.Redis.Addr})
		return ledger.NewRedisLedger(ledger.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		}), nil
	case "postgres":
		pool := mustPG(ctx, cfg)
		led := ledger.NewPostgresLedger(pool)
		if err := led.EnsureSchema(ctx); err != nil {
			logging.LogError("ledger schema migration failed", err, logrus.Fields{})
			os.Exit(1)
		}
		logging.LogInfo("postgres ledger enabled", logrus.Fields{"db_name": cfg.DB.Name})
		return led, pool
	default:
		logging.LogInfo("in-memory ledger enabled", logrus.Fields{})
		return ledger.NewMemoryLedger(), nil
	}
}

// runSubmitter is the async worker: consumes queued items and submits them.
func runSubmitter(ctx context.Context, consumer kaf.Consumer, cfg config.Config, svc *fulfillment.Service) {
	logging.LogInfo("kafka submitter subscribing", logrus.Fields{
		"topic": cfg.Kafka.Topic, "group": cfg.Kafka.Group, "brokers": cfg.Kafka.Brokers,
	})

	err := consumer.Subscribe(ctx, cfg.Kafka.Topic, cfg.Kafka.Group, func(ctx context.Context, msg kaf.Message) error {
		if msg.Envelope.EventType != kaf.EventItemRequested {
			return nil
		}
		var p kaf.ItemRequested
		if err := json.Unmarshal(msg.Envelope.Payload, &p); err != nil {
			logging.LogError("submitter bad payload", err, logrus.Fields{"key": string(msg.Key)})
			return kaf.Terminal
		}
		res := svc.ProcessItem(ctx, p.Order, p.Item)
		if res.Err != nil && res.Status == fulfillment.StatusSubmitFailed {
			// Already logged and released by the service; retrying a
			// provider rejection here would just repeat it.
			return kaf.Terminal
		}
		return nil
	})
	if err != nil {
		logging.LogError("kafka submitter stopped", err, logrus.Fields{
			"topic": cfg.Kafka.Topic, "group": cfg.Kafka.Group,
		})
	} else {
		logging.LogInfo("kafka submitter exited gracefully", logrus.Fields{
			"topic": cfg.Kafka.Topic, "group": cfg.Kafka.Group,
		})
	}
}

func mustPG(ctx context.Context, cfg config.Config) *pgxpool.Pool {
	dbURL := os.Getenv("DATABASE_URL")
	fields := logrus.Fields{}
	if dbURL == "" {
		dbURL = "postgres://" + cfg.DB.User + ":" + cfg.DB.Password + "@" +
			cfg.DB.Host + ":" + cfg.DB.Port + "/" + cfg.DB.Name + "?sslmode=" + cfg.DB.SSLMode
		fields = logrus.Fields{
			"source":  "env/defaults",
			"host":    cfg.DB.Host,
			"port":    cfg.DB.Port,
			"db_name": cfg.DB.Name,
			"user":    cfg.DB.User,
			"sslmode": cfg.DB.SSLMode,
		}
	} else {
		fields = logrus.Fields{"source": "DATABASE_URL"}
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logging.LogError("pgxpool.New failed", err, fields)
		os.Exit(1)
	}
	logging.LogInfo("pgx pool created", fields)
	return pool
}

func mustKafkaProducer(cfg config.Config) kaf.Producer {
	p, err := kaf.NewProducer(kaf.ProducerConfig{
		Brokers:                cfg.Kafka.Brokers,
		ClientID:               "fulfillment-service",
		RequiredAcks:           segmentio.RequireAll,
		BatchBytes:             1 << 20,
		BatchTimeout:           50 * time.Millisecond,
		Compression:            segmentio.Snappy,
		Async:                  false,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	})
	if err != nil {
		logging.LogError("kafka producer create failed", err, logrus.Fields{"brokers": cfg.Kafka.Brokers})
		os.Exit(1)
	}
	logging.LogInfo("kafka producer created", logrus.Fields{"brokers": cfg.Kafka.Brokers, "client_id": "fulfillment-service"})
	return p
}
