package main

import (
	"context"
	"os"

	"github.com/wajeehjabribrahim/manajel-store/config"
	"github.com/wajeehjabribrahim/manajel-store/internal/catalog"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/internal/seed"
	"github.com/wajeehjabribrahim/manajel-store/pkg/database"
	"github.com/wajeehjabribrahim/manajel-store/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	s := seed.New(repos.Categories, repos.Products, catalog.MustLoad(), log)

	ctx := context.Background()

	mode := "categories"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "catalog":
		log.Info("importing built-in catalog")
		n, err := s.Products(ctx)
		if err != nil {
			log.Fatal("catalog import failed", zap.Error(err))
		}
		log.Info("catalog imported", zap.Int("created", n))
	case "all":
		n, err := s.Categories(ctx)
		if err != nil {
			log.Fatal("category seed failed", zap.Error(err))
		}
		m, err := s.Products(ctx)
		if err != nil {
			log.Fatal("catalog import failed", zap.Error(err))
		}
		log.Info("seed finished", zap.Int("categories", n), zap.Int("products", m))
	default:
		n, err := s.Categories(ctx)
		if err != nil {
			log.Fatal("category seed failed", zap.Error(err))
		}
		log.Info("categories seeded", zap.Int("created", n))
	}
}
