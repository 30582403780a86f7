package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/config"
	_ "github.com/wajeehjabribrahim/manajel-store/docs"
	"github.com/wajeehjabribrahim/manajel-store/internal/cache"
	"github.com/wajeehjabribrahim/manajel-store/internal/catalog"
	"github.com/wajeehjabribrahim/manajel-store/internal/handlers"
	"github.com/wajeehjabribrahim/manajel-store/internal/hashing"
	"github.com/wajeehjabribrahim/manajel-store/internal/outbox"
	"github.com/wajeehjabribrahim/manajel-store/internal/producer"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/internal/router"
	"github.com/wajeehjabribrahim/manajel-store/internal/sender"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"
	"github.com/wajeehjabribrahim/manajel-store/internal/storage"
	"github.com/wajeehjabribrahim/manajel-store/internal/token"
	"github.com/wajeehjabribrahim/manajel-store/pkg/database"
	"github.com/wajeehjabribrahim/manajel-store/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// @Title Manajel Store API
// @Version 1.0
// @Description Storefront and back office API for Manajel
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal("register validators", zap.Error(err))
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	builtin := catalog.MustLoad()

	// redis is optional: without it contact rate limiting and logout revocation are off
	var cacheClient service.CacheClient
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer rc.Close()
		cacheClient = rc
	}

	hasher := hashing.NewPasswords(bcrypt.DefaultCost)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	products := service.NewProductService(repos.Products, builtin, log)
	categories := service.NewCategoryService(repos.Categories, repos.Products, builtin, log)
	orders := service.NewOrderService(repos.Orders, repos.Users, products, cfg.NotifyEmails, cfg.PublicURL, log)
	contacts := service.NewContactService(repos.Contacts, cacheClient, cfg.Redis.ContactRateLimit, cfg.NotifyEmails, log)
	auth := service.NewAuthService(repos.Users, hasher, tokens, cacheClient, cfg.AdminEmails, cfg.JWT.AccessExp, log)
	admin := service.NewAdminService(repos.Users, repos.Stats, hasher, log)

	var images storage.ImageStore = storage.InlineStore{}
	if cfg.Cloudinary.URL != "" {
		cs, err := storage.NewCloudinaryStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			log.Fatal("cloudinary init failed", zap.Error(err))
		}
		images = cs
	}

	pub, closePub := newPublisher(cfg, log)
	defer closePub()

	relay := outbox.NewRelay(repos.Outbox, pub, outbox.Options{
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
		Retention:   cfg.Outbox.Retention,
	}, log)
	scheduler := outbox.NewScheduler(relay, cfg.Outbox.Interval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	productHandler := handlers.NewProductHandler(products, log)
	r := router.Router(router.Handlers{
		Products:   productHandler,
		Categories: handlers.NewCategoryHandler(categories, log),
		Orders:     handlers.NewOrderHandler(orders, log),
		Contact:    handlers.NewContactHandler(contacts, log),
		Auth:       handlers.NewAuthHandler(auth, log),
		Admin:      handlers.NewAdminHandler(admin, log),
		Uploads:    handlers.NewUploadHandler(images, log),
		Exports:    handlers.NewExportHandler(orders, products, log),
	}, auth, router.Options{CORSOrigins: cfg.CORSOrigins, Swagger: cfg.IsDev()}, log)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting storefront HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down storefront...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	scheduler.Stop()
	log.Info("Storefront stopped gracefully")
}

// newPublisher picks where outbox emails go: Kafka for the notifier,
// SMTP directly, or the log when neither is configured.
func newPublisher(cfg *config.Config, log *zap.Logger) (outbox.Publisher, func()) {
	switch {
	case len(cfg.Kafka.Brokers) > 0:
		p := producer.NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("outbox publishes to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		return p, func() {
			if err := p.Close(); err != nil {
				log.Warn("kafka producer close", zap.Error(err))
			}
		}
	case cfg.SMTP.Host != "":
		log.Info("outbox sends email over smtp", zap.String("host", cfg.SMTP.Host))
		return sender.NewEmailSender(cfg.SMTP), func() {}
	default:
		log.Warn("no kafka or smtp configured, notifications are only logged")
		return outbox.NewLogPublisher(log), func() {}
	}
}
