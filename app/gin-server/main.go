package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hirebridge/hirebridge/config"
	"github.com/hirebridge/hirebridge/internal/api/handlers"
	"github.com/hirebridge/hirebridge/internal/api/middleware"
	"github.com/hirebridge/hirebridge/internal/api/routes"
	"github.com/hirebridge/hirebridge/internal/cache"
	"github.com/hirebridge/hirebridge/internal/logger"
	"github.com/hirebridge/hirebridge/internal/providers/llm"
	"github.com/hirebridge/hirebridge/internal/realtime"
	mongorepo "github.com/hirebridge/hirebridge/internal/repositories/mongo"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/internal/storage"
	"github.com/hirebridge/hirebridge/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	convoRepo := pgrepo.NewConversationRepo(config.PostgresDB)
	appRepo := pgrepo.NewApplicationRepo(config.PostgresDB)
	interviewRepo := pgrepo.NewInterviewRepo(config.PostgresDB)
	docRepo := pgrepo.NewDocumentRepo(config.PostgresDB)
	jobRepo := pgrepo.NewJobRepo(config.PostgresDB)
	companyRepo := pgrepo.NewCompanyRepo(config.PostgresDB)
	profileRepo := pgrepo.NewProfileRepo(config.PostgresDB)
	mongoDB := config.MongoClient.Database(config.MongoDBName())
	onboardingRepo := mongorepo.NewOnboardingRepo(mongoDB)

	// Infra
	redisCache := cache.NewRedisCache(config.RedisClient)
	publisher := realtime.NewStreamPublisher(config.RedisClient)

	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		log.Fatal("GCS_BUCKET environment variable is not set")
	}
	store, err := storage.NewGCSStore(ctx, bucket)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer store.Close()

	var provider llm.Provider
	if project := os.Getenv("VERTEX_PROJECT_ID"); project != "" {
		location := os.Getenv("VERTEX_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		provider, err = llm.NewVertexGemini(ctx, project, location, os.Getenv("VERTEX_MODEL"))
		if err != nil {
			log.Fatalf("Vertex init error: %v", err)
		}
		defer provider.Close()
	} else {
		l.Warn("VERTEX_PROJECT_ID not set; onboarding assistant disabled")
	}

	// Services
	convoSvc := services.NewConversationService(convoRepo, appRepo, jobRepo, redisCache, publisher)
	appSvc := services.NewApplicationService(appRepo, interviewRepo, jobRepo, profileRepo)
	jobSvc := services.NewJobService(jobRepo, companyRepo, profileRepo)
	profileSvc := services.NewProfileService(profileRepo)
	docSvc := services.NewDocumentService(docRepo, store)
	onboardingSvc := services.NewOnboardingService(onboardingRepo, provider)

	// Message fan-out workers: stream -> per-user pub/sub
	pool := &workers.MessageEventWorkerPool{
		Redis:         config.RedisClient,
		Conversations: convoRepo,
		NumWorkers:    3,
		Logger:        l,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Conversation: handlers.NewConversationHandler(convoSvc),
		Application:  handlers.NewApplicationHandler(appSvc),
		Job:          handlers.NewJobHandler(jobSvc),
		Profile:      handlers.NewProfileHandler(profileSvc),
		Document:     handlers.NewDocumentHandler(docSvc),
		Onboarding:   handlers.NewOnboardingHandler(onboardingSvc),
		WS:           handlers.NewWSHandler(config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
