package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-ticket-store.git/internal/catalog"
	"github.com/ariefcatur/go-ticket-store.git/internal/chat"
	"github.com/ariefcatur/go-ticket-store.git/internal/config"
	"github.com/ariefcatur/go-ticket-store.git/internal/fulfill"
	"github.com/ariefcatur/go-ticket-store.git/internal/httpx"
	"github.com/ariefcatur/go-ticket-store.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-ticket-store.git/internal/kafka"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/payment"
	"github.com/ariefcatur/go-ticket-store.git/internal/postgres"
	"github.com/ariefcatur/go-ticket-store.git/internal/redisx"
	"github.com/ariefcatur/go-ticket-store.git/internal/ticket"
	"github.com/ariefcatur/go-ticket-store.git/internal/webhook"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Store + catalog + inventory: postgres kalau diminta, default memory
	var store orders.Store
	var source inventory.Source
	var cat *catalog.Catalog
	if cfg.OrderStore == "postgres" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		store = &orders.PostgresStore{DB: db}
		source = &inventory.VaultRepo{DB: db}
		cat, err = catalog.FromDB(ctx, db)
		if err != nil {
			log.Fatalf("load catalog from db: %v", err)
		}
	} else {
		store = orders.NewMemoryStore()
		source = inventory.NewStaticSource(nil) // stok kosong -> delivery manual
		var err error
		cat, err = catalog.FromFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("load catalog %s: %v", cfg.CatalogPath, err)
		}
	}

	// Kafka producer (lifecycle events)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderLifecycle, 1024)
	prod.Start(ctx)

	// Collaborators
	gw := payment.NewPayOSClient(cfg.PayBaseURL, cfg.PayClientID, cfg.PayAPIKey, cfg.PayChecksumKey)
	chatc := chat.NewClient(cfg.ChatBaseURL, cfg.ChatToken, cfg.GuildID, cfg.StaffRoleID)

	// Services
	dispatcher := fulfill.NewDispatcher(source, chatc)
	svc := ticket.NewService(cat, store, gw, chatc, chatc, prod, rdb, cfg.ServiceName)
	rec := webhook.NewReconciler(gw, store, cat, dispatcher, prod, rdb, cfg.ServiceName)

	// Router & handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{Svc: svc, Store: store, Catalog: cat, Redis: rdb}
	oh.Register(router)
	wh := &httpx.WebhookHandler{Rec: rec}
	wh.Register(router, cfg.WebhookPath)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s (webhook %s)", cfg.HTTPAddr, cfg.WebhookPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
