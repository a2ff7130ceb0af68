package app

import (
	"campussafety/internal/cache"
	"campussafety/internal/config"
	"campussafety/internal/log"
	"campussafety/internal/pkg/workerpool"
	"campussafety/internal/repository"
	"campussafety/internal/service"
	"campussafety/internal/transport/rest"
	"campussafety/internal/transport/ws"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const submitLockTTL = 2 * time.Minute

// Stores are the connected storage backends
type Stores struct {
	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	AssignmentRepo repository.AssignmentRepo
	LocationRepo   repository.LocationRepo
	DraftRepo      repository.DraftRepo
	CompletionRepo repository.CompletionRepo
	Files          *repository.GridFSStore
}

// Connect opens MongoDB and Redis and builds the repositories
func Connect(ctx context.Context, cfg *config.Config) (*Stores, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	log.Info("connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		mongoClient.Disconnect(ctx)
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("connected to Redis")

	db := mongoClient.Database(cfg.MongoDB)
	files, err := repository.NewGridFSStore(db, cfg.PublicBaseURL)
	if err != nil {
		mongoClient.Disconnect(ctx)
		rdb.Close()
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}

	return &Stores{
		Mongo:          mongoClient,
		DB:             db,
		Redis:          rdb,
		AssignmentRepo: repository.NewAssignmentRepo(db),
		LocationRepo:   repository.NewLocationRepo(db),
		DraftRepo:      repository.NewDraftRepo(db),
		CompletionRepo: repository.NewCompletionRepo(db),
		Files:          files,
	}, nil
}

// Close disconnects both backends
func (s *Stores) Close(ctx context.Context) {
	if err := s.Redis.Close(); err != nil {
		log.WithError(err).Warn("redis close failed")
	}
	if err := s.Mongo.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("mongodb disconnect failed")
	}
}

// App is the assembled service
type App struct {
	Stores  *Stores
	Pool    *workerpool.WorkerPool
	Hub     *ws.Hub
	Handler http.Handler
}

// New wires caches, services and transport on top of stores. The worker
// pool stops when ctx ends.
func New(ctx context.Context, cfg *config.Config, stores *Stores) *App {
	// Initialize WebSocket hub
	hub := ws.NewHub()

	// Initialize caches
	sessions := cache.NewSessionCache(stores.Redis)
	gate := cache.NewSubmitGate(stores.Redis, submitLockTTL)
	locationCache := cache.NewLocationCache(stores.Redis)

	pool := workerpool.NewWorkerPool(ctx, cfg.Upload.Workers, cfg.Upload.QueueSize)

	// Initialize services
	authSvc := service.NewAuthService(cfg.AuthUsername, cfg.AuthPassword, cfg.JWTSecret)
	locationSvc := service.NewLocationService(stores.LocationRepo, locationCache)
	assignmentSvc := service.NewAssignmentService(stores.AssignmentRepo)
	submitter := service.NewSubmitter(cfg.Completion, stores.CompletionRepo)
	formSvc := service.NewFormService(stores.AssignmentRepo, stores.DraftRepo, locationSvc, sessions, gate, submitter, cfg.Location())
	uploadSvc := service.NewUploadService(formSvc, sessions, stores.Files, pool, cfg.Upload.MaxBytes, cfg.Upload.Retries)
	reportSvc := service.NewReportService(stores.AssignmentRepo, stores.CompletionRepo)

	// Inject broadcaster (hub implements service.Broadcaster)
	formSvc.SetBroadcaster(hub)
	uploadSvc.SetBroadcaster(hub)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		LocationService:   locationSvc,
		AssignmentService: assignmentSvc,
		FormService:       formSvc,
		UploadService:     uploadSvc,
		ReportService:     reportSvc,
		Files:             stores.Files,
		WSHub:             hub,
		MaxUploadBytes:    cfg.Upload.MaxBytes,
		CORSOrigins:       cfg.CORSOrigins,
	})

	return &App{
		Stores:  stores,
		Pool:    pool,
		Hub:     hub,
		Handler: router,
	}
}
