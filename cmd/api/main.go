package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	cronrunner "github.com/xavierca1/leadgrid/internal/infra/cron"
	"github.com/xavierca1/leadgrid/internal/infra/http/handlers"
	"github.com/xavierca1/leadgrid/internal/infra/http/middleware"
	"github.com/xavierca1/leadgrid/internal/infra/integration/places"
	"github.com/xavierca1/leadgrid/internal/infra/mail"
	"github.com/xavierca1/leadgrid/internal/infra/queue"
	"github.com/xavierca1/leadgrid/internal/infra/sheets"
	"github.com/xavierca1/leadgrid/internal/usecase"
)

const scrapeBudgetUSD = 190

func main() {
	godotenv.Load()

	ctx := context.Background()

	// 1. Sheet-backed store
	creds, err := serviceAccountJSON()
	if err != nil {
		log.Fatalf("❌ Google credentials: %v", err)
	}
	store, err := sheets.NewStore(ctx, os.Getenv("GOOGLE_SHEETS_ID"),
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		log.Fatalf("❌ Sheets client: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Printf("⚠️ Schema check failed, continuing: %v", err)
	}

	// 2. Gateways e Adapters
	placesClient := places.NewClient(os.Getenv("GOOGLE_MAPS_API_KEY"))
	meter := usecase.NewUsageMeter(scrapeBudgetUSD)

	// 3. RabbitMQ + digest worker (optional: skipped when no broker is configured)
	var producer queue.QueueProducerInterface
	var rabbitMQ *queue.RabbitMQ
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		rabbitMQ, err = queue.NewRabbitMQ(
			os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
			host, envOr("RABBITMQ_PORT", "5672"),
		)
		if err != nil {
			log.Fatalf("❌ RabbitMQ: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()

		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), 587,
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"), os.Getenv("MAIL_FROM"),
		)
		worker := queue.NewWorker(rabbitMQ.Ch, mailSender, os.Getenv("DIGEST_RECIPIENT"))
		go worker.Start(queue.QueueName)

		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	} else {
		log.Println("⚠️ RABBITMQ_HOST not set, reminder digest disabled")
	}

	// 4. UseCases
	listUC := usecase.NewListLeadsUseCase(store)
	updateUC := usecase.NewUpdateLeadUseCase(store)
	createUC := usecase.NewCreateLeadUseCase(store)
	scrapeUC := usecase.NewScrapeLeadsUseCase(store, placesClient, meter)

	// 5. Cron: morning digest at 09:00
	if producer != nil {
		digestUC := usecase.NewReminderDigestUseCase(store, producer)
		runner := cronrunner.New(ctx)
		if _, err := runner.Add("0 0 9 * * *", func(ctx context.Context) {
			if _, err := digestUC.Execute(ctx); err != nil {
				log.Printf("❌ Reminder digest: %v", err)
			}
		}); err != nil {
			log.Fatalf("❌ Cron: %v", err)
		}
		runner.Start()
		defer runner.Stop()
	}

	// 6. Handlers
	authHandler := handlers.NewAuthHandler(
		splitEnvList("VALID_ACCESS_IDS"), splitEnvList("VALID_PASSWORDS"),
	)
	leadHandler := handlers.NewLeadHandler(listUC, updateUC, createUC)
	scrapeHandler := handlers.NewScrapeHandler(scrapeUC)

	healthHandler := handlers.NewHealthHandler(store, nil)
	if rabbitMQ != nil {
		healthHandler = handlers.NewHealthHandler(store, rabbitMQ.Conn)
	}

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(middleware.Metrics)

	registerRoutes(r, authHandler, leadHandler, scrapeHandler, healthHandler)
	r.Route("/api", func(api chi.Router) {
		registerRoutes(api, authHandler, leadHandler, scrapeHandler, healthHandler)
	})

	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "5000")
	log.Printf("🔥 LeadGrid API rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

// serviceAccountJSON assembles credentials from the two split env vars so
// deployments never need a key file on disk. Private keys arrive with
// literal \n sequences from most env stores.
func serviceAccountJSON() ([]byte, error) {
	key := strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n")
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		"private_key":  key,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

func splitEnvList(name string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
