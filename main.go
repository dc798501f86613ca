package main

import (
	"context"

	"storefront/bootstrap"
	"storefront/cache"
	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/kafka"
	"storefront/logger"
	"storefront/models"
	repositories "storefront/repository"
	"storefront/routes"
	"storefront/security"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync()

	db, err := database.ConnectPostgres(cfg, log,
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := database.NewRedisClient(cfg.RedisURL, log)
	cacheManager := cache.NewManager(redisClient, cfg.CacheTTL, log)

	var producer kafka.ProducerAPI
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		p := kafka.NewProducer(brokers, cfg.KafkaTopic)
		defer p.Close()
		producer = p
		log.Info("Kafka producer enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}

	userRepo := repositories.NewGormUserRepository(db)
	productRepo := repositories.NewGormProductRepository(db)
	cartRepo := repositories.NewGormCartRepository(db)
	orderRepo := repositories.NewGormOrderRepository(db)

	if cfg.SeedData {
		if err := bootstrap.Seed(context.Background(), userRepo, productRepo, log); err != nil {
			log.Warn("Seeding failed", zap.Error(err))
		}
	}

	blacklist := security.NewTokenBlacklist(cfg.BlacklistSweep, log)
	blacklist.Start()
	defer blacklist.Stop()

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	locker := services.NewUserLocker()

	cartService := services.NewCartService(cartRepo, userRepo, productRepo, locker, log)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, productRepo, locker, producer, log)
	productService := services.NewProductService(productRepo, cacheManager, log)
	reportService := services.NewReportService(orderRepo, productRepo, log)

	ctrl := routes.Controllers{
		Auth:       controllers.NewAuthController(userRepo, tokens, blacklist, log),
		Users:      controllers.NewUserController(userRepo, log),
		Products:   controllers.NewProductController(productService),
		Carts:      controllers.NewCartController(cartService),
		Orders:     controllers.NewOrderController(orderService),
		Reports:    controllers.NewReportController(reportService),
		ImageProxy: controllers.NewImageProxyController(log),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())
	routes.RegisterRoutes(r, ctrl, tokens, blacklist)

	log.Info("Starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Error starting server", zap.Error(err))
	}
}
