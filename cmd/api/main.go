package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"customizer-shopify-layer/internal/application"
	"customizer-shopify-layer/internal/application/webhook_handlers"
	"customizer-shopify-layer/internal/domain"
	apiinfra "customizer-shopify-layer/internal/infrastructure/api"
	"customizer-shopify-layer/internal/infrastructure/imagegen"
	appmiddleware "customizer-shopify-layer/internal/infrastructure/middleware"
	"customizer-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "customizer-shopify-layer/internal/infrastructure/shopify"
	"customizer-shopify-layer/internal/infrastructure/statestore"
	"customizer-shopify-layer/internal/infrastructure/storage"
	"customizer-shopify-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	apiKey := os.Getenv("SHOPIFY_API_KEY")
	apiSecret := os.Getenv("SHOPIFY_API_SECRET")
	scopes := splitScopes(os.Getenv("SHOPIFY_SCOPES"))

	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" {
		webhookSecret = apiSecret
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "customizer"
	}
	db := client.Database(dbName)

	// Connect to Redis for OAuth session state
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	// Initialize repositories
	repo := repository.NewMongoRepository(db)
	sessionStore := statestore.NewRedisSessionStore(redisClient)

	// Initialize Shopify clients
	adminClient := shopifyinfra.NewClient(apiKey, apiSecret, logger)
	storefrontClient := shopifyinfra.NewStorefrontClient(logger)
	verifier := shopifyinfra.NewWebhookVerifier(webhookSecret)

	// Initialize image storage
	uploader := buildUploader(logger)

	// Image generation is optional
	var generator ports.ImageGenerator
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		generator = imagegen.NewOpenAIGenerator(openAIKey, logger)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, image generation disabled")
	}

	// Initialize application services
	webhookManager := application.NewWebhookManager(adminClient, appURL, logger)
	installService := application.NewInstallService(repo, sessionStore, adminClient, webhookManager, apiKey, scopes, appURL, logger)
	checkoutService := application.NewCheckoutService(repo, repo, storefrontClient, logger)
	catalogService := application.NewCatalogService(repo, repo, adminClient, logger)
	designService := application.NewDesignService(repo, uploader, generator, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewOrderHandler(logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(repo, repo, repo, logger))

	handlers := apiinfra.NewHandlers(checkoutService, designService, catalogService, verifier, webhookDispatcher, repo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appmiddleware.Metrics())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth", oauthInitHandler(installService, logger))
	r.Get("/auth/callback", oauthCallbackHandler(installService, logger))

	// API surface, including webhook endpoints
	r.Mount("/api", handlers.Routes())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// oauthInitHandler initiates the OAuth flow
func oauthInitHandler(installService *application.InstallService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("shop")
		if shop == "" {
			http.Redirect(w, r, "/?error=missing-shop", http.StatusFound)
			return
		}

		authURL, err := installService.BeginInstall(r.Context(), shop, requestBaseURL(r))
		if err != nil {
			var validationErr *domain.ValidationError
			if errors.As(err, &validationErr) {
				http.Redirect(w, r, "/?error=invalid-shop", http.StatusFound)
				return
			}
			var configErr *domain.ConfigurationError
			if errors.As(err, &configErr) {
				http.Error(w, configErr.Error(), http.StatusInternalServerError)
				return
			}
			logger.Error().Err(err).Str("shop", shop).Msg("failed to start install")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// oauthCallbackHandler completes the OAuth flow
func oauthCallbackHandler(installService *application.InstallService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("shop")
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		if shop == "" || code == "" || state == "" {
			http.Error(w, "Missing required parameters", http.StatusBadRequest)
			return
		}

		store, err := installService.CompleteInstall(r.Context(), shop, code, state)
		if err != nil {
			var authErr *domain.AuthError
			if errors.As(err, &authErr) {
				http.Error(w, "Invalid session", http.StatusUnauthorized)
				return
			}
			logger.Error().Err(err).Str("shop", shop).Msg("failed to complete installation")
			http.Error(w, "Failed to complete installation", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/dashboard?shop="+store.ShopDomain, http.StatusFound)
	}
}

func buildUploader(logger zerolog.Logger) ports.Uploader {
	switch os.Getenv("STORAGE_PROVIDER") {
	case "s3":
		uploader, err := storage.NewS3Uploader(
			context.Background(),
			os.Getenv("AWS_REGION"),
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			os.Getenv("S3_BUCKET"),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		return uploader
	case "cloudinary":
		uploader, err := storage.NewCloudinaryUploader(os.Getenv("CLOUDINARY_URL"))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Cloudinary storage")
		}
		return uploader
	default:
		bucket := os.Getenv("SUPABASE_BUCKET")
		if bucket == "" {
			bucket = "designs"
		}
		return storage.NewSupabaseUploader(
			os.Getenv("SUPABASE_URL"),
			os.Getenv("SUPABASE_SERVICE_KEY"),
			bucket,
		)
	}
}

func splitScopes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func requestBaseURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}
