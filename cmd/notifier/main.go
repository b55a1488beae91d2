package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/example/storefront-api/internal/email"
	"github.com/example/storefront-api/internal/events"
	"github.com/example/storefront-api/internal/infrastructure/kafka"
	"github.com/example/storefront-api/internal/notification"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	consumerGroup := getEnv("CONSUMER_GROUP", "email-notifier")

	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "noreply@example.com")
	opsEmail := getEnv("OPS_EMAIL", "ops@example.com")

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Storefront - Email Notification Service")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", kafkaBrokers)
	log.Printf("[Notifier] Group: %s", consumerGroup)
	log.Printf("[Notifier] SMTP: %s:%s", smtpHost, smtpPort)
	log.Printf("[Notifier] From: %s", smtpFrom)

	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom)
	handler := notification.NewHandler(emailSvc, opsEmail)

	// One consumer per topic; event payloads carry everything the mails
	// need, so no database connection here.
	subscriptions := []struct {
		topic   string
		handler kafka.MessageHandler
	}{
		{events.TopicOrderPlaced, handler.HandleOrderPlaced},
		{events.TopicOrderSettled, handler.HandleOrderSettled},
		{events.TopicSettlementFailed, handler.HandleSettlementFailed},
	}

	var wg sync.WaitGroup
	for _, sub := range subscriptions {
		consumer := kafka.NewConsumer(kafkaBrokers, sub.topic, consumerGroup)
		defer consumer.Close()

		wg.Add(1)
		go func(topic string, consume kafka.MessageHandler) {
			defer wg.Done()
			log.Printf("[Notifier] Listening to topic: %s", topic)
			if err := consumer.Consume(ctx, consume); err != nil {
				if ctx.Err() == nil {
					log.Printf("[Notifier] Consumer error on %s: %v", topic, err)
				}
			}
		}(sub.topic, sub.handler)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
	wg.Wait()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
