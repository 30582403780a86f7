package main

import (
	"context"
	"os"

	"github.com/wajeehjabribrahim/manajel-store/config"
	"github.com/wajeehjabribrahim/manajel-store/internal/migrate"
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

	db := database.ConnectDBForMigration(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx := context.Background()

	opts := migrate.DefaultMigrateOptions()

	if err := migrate.MigrateStoreDB(ctx, db, log, opts); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migration finished")
}
