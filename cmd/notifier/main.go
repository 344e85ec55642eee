package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ariefcatur/go-ticket-store.git/internal/chat"
	"github.com/ariefcatur/go-ticket-store.git/internal/config"
	kafkax "github.com/ariefcatur/go-ticket-store.git/internal/kafka"
	"github.com/ariefcatur/go-ticket-store.git/internal/notifier"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/redisx"
	"github.com/joho/godotenv"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (dedup)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Chat client utk log channel operator
	chatc := chat.NewClient(cfg.ChatBaseURL, cfg.ChatToken, cfg.GuildID, cfg.StaffRoleID)

	svc := &notifier.Service{
		Notif:        chatc,
		Redis:        rdb,
		LogChannelID: cfg.LogChannelID,
	}

	// Consumer
	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderLifecycle, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderLifecycle, workers)
		if err := cons.Start(ctx, svc.HandleLifecycle); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
