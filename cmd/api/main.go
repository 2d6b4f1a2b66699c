package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/weecode/credenciamento-empresa/internal/admin"
	"github.com/weecode/credenciamento-empresa/internal/attachments"
	"github.com/weecode/credenciamento-empresa/internal/broker"
	"github.com/weecode/credenciamento-empresa/internal/config"
	"github.com/weecode/credenciamento-empresa/internal/db"
	"github.com/weecode/credenciamento-empresa/internal/handlers"
	"github.com/weecode/credenciamento-empresa/internal/mailer"
	"github.com/weecode/credenciamento-empresa/internal/notify"
	"github.com/weecode/credenciamento-empresa/internal/repository"
	"github.com/weecode/credenciamento-empresa/internal/statusflow"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()
	if *task != "" {
		switch *task {
		case "seed":
			// conecta somente o necessário para o seed
			client, err := db.NewMongoClient(cfg.MongoURI)
			if err != nil {
				slog.Error("mongo_connect_error", "err", err)
				os.Exit(1)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			database := client.Database(cfg.MongoDB)
			users := repository.NewUserRepository(database)
			requirements := repository.NewRequirementRepository(database)
			if err := admin.Seed(context.Background(), users, requirements, slog.Default()); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return // encerra o processo sem subir HTTP
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	// conecta Mongo
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// publisher (Rabbit)
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbitmq connect error: %v", err)
	}
	defer pub.Close()

	database := client.Database(cfg.MongoDB)
	companies := repository.NewCompanyRepository(database)
	users := repository.NewUserRepository(database)
	attachmentRepo := repository.NewAttachmentRepository(database)
	notifications := repository.NewNotificationRepository(database)
	requirements := repository.NewRequirementRepository(database)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := companies.EnsureIndexes(ctx); err != nil {
			slog.Error("ensure_indexes_error", "err", err)
		}
		cancel()
	}

	smtp := mailer.NewSMTPMailer(cfg.SMTP)
	dispatcher := notify.NewDispatcher(smtp, notifications, slog.Default())
	machine := statusflow.NewMachine(companies, users, attachmentRepo, dispatcher, smtp, pub, slog.Default())
	attachmentSvc := attachments.NewService(companies, requirements, attachmentRepo, machine, pub, slog.Default())

	h := &handlers.CompanyHandler{
		Repo:        companies,
		Users:       users,
		Flow:        machine,
		Attachments: attachmentSvc,
		Dispatcher:  dispatcher,
		Mailer:      smtp,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/api/companies", h.Companies)
	mux.HandleFunc("/api/companies/", h.CompanyRoutes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown error", "err", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(start)
		slog.Info("http_request", "method", r.Method, "path", r.URL.Path, "duration", fmtDuration(dur))
	})
}

func fmtDuration(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
