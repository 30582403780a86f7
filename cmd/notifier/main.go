package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/config"
	"github.com/wajeehjabribrahim/manajel-store/internal/consumer"
	"github.com/wajeehjabribrahim/manajel-store/internal/sender"
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

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}
	if cfg.SMTP.Host == "" {
		log.Fatal("no smtp host configured (SMTP_HOST)")
	}

	emailSender := sender.NewEmailSender(cfg.SMTP)
	cons := consumer.NewKafkaEmailConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, emailSender, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := cons.Run(ctx); err != nil {
			log.Error("consumer stopped", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutdown signal received")
	cancel()
	_ = cons.Close()
	time.Sleep(200 * time.Millisecond)
}
