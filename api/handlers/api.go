package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codedrop/codedrop-api/api"
	"github.com/codedrop/codedrop-api/api/scheduler"
	"github.com/codedrop/codedrop-api/codes"
	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// App stores the router and the shared storage handles, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Store     storage.KeyValueStore
	Blob      storage.BlobStore
	Clock     databases.Clock
	Scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.Auth{Config: &a.Config}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	gen := codes.NewAccessCodeGenerator(a.Clock.Now().UnixNano())
	codeDB := databases.NewCodeDatabase(a.Store, a.Clock, gen)
	sweeper := databases.NewExpiryManager(a.Store, a.Clock)
	historyDB := databases.NewHistoryDatabase(a.Store, a.Clock)

	c := Code{DB: codeDB, Oracle: codes.ExtensionOracle{}, Clock: a.Clock}
	d := Dashboard{DB: codeDB, Sweeper: sweeper, Directory: databases.NewTeacherDirectory(a.Store), Clock: a.Clock, Config: &a.Config}
	t := Teacher{DB: databases.NewTeacherDatabase(a.Store), HDB: historyDB, Clock: a.Clock}
	f := File{DB: databases.NewFileDatabase(a.Store), HDB: historyDB, Blob: a.Blob, Clock: a.Clock}
	h := History{DB: historyDB}
	cfg := ConfigValues{DB: databases.NewConfigDatabase(a.Store)}
	metrics := Metrics{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.HandleFunc("/welcome", cfg.WelcomeHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/store", http.HandlerFunc(c.StoreHandler)).Methods("POST")
	apiCreate.Handle("/retrieve/{code}", http.HandlerFunc(c.RetrieveHandler)).Methods("GET")
	apiCreate.Handle("/extend", http.HandlerFunc(c.ExtendHandler)).Methods("POST")

	apiCreate.Handle("/config", http.HandlerFunc(cfg.GetHandler)).Methods("GET")
	apiCreate.Handle("/config", api.Middleware(http.HandlerFunc(cfg.SetHandler))).Methods("POST")

	jwtGuard := api.JWTMiddleware(a.Config.JWTSecret)
	apiCreate.Handle("/dashboard/login", http.HandlerFunc(d.LoginHandler)).Methods("POST")
	apiCreate.Handle("/dashboard", jwtGuard(http.HandlerFunc(d.DashboardHandler))).Methods("GET")
	apiCreate.Handle("/dashboard/expire", jwtGuard(http.HandlerFunc(d.ExpireHandler))).Methods("POST")
	apiCreate.Handle("/dashboard/ws", jwtGuard(http.HandlerFunc(d.StatsSocketHandler))).Methods("GET")
	apiCreate.Handle("/dashboard/teachers", jwtGuard(http.HandlerFunc(d.TeacherIDsHandler))).Methods("GET")
	apiCreate.Handle("/dashboard/teachers", jwtGuard(http.HandlerFunc(d.AddTeacherIDHandler))).Methods("POST")
	apiCreate.Handle("/dashboard/teachers", jwtGuard(http.HandlerFunc(d.RemoveTeacherIDHandler))).Methods("DELETE")

	apiCreate.Handle("/teachers", api.Middleware(http.HandlerFunc(t.TeachersHandler))).Methods("GET")
	apiCreate.Handle("/teachers", api.Middleware(http.HandlerFunc(t.CreateTeacherHandler))).Methods("POST")
	apiCreate.Handle("/teachers/{teacher_id}", api.Middleware(http.HandlerFunc(t.TeacherHandler))).Methods("GET")
	apiCreate.Handle("/teachers/{teacher_id}", api.Middleware(http.HandlerFunc(t.UpdateTeacherHandler))).Methods("PATCH")
	apiCreate.Handle("/teachers/{teacher_id}", api.Middleware(http.HandlerFunc(t.DeleteTeacherHandler))).Methods("DELETE")

	apiCreate.Handle("/files", api.Middleware(http.HandlerFunc(f.UploadHandler))).Methods("POST")
	apiCreate.Handle("/files/{file_id}", api.Middleware(http.HandlerFunc(f.GetHandler))).Methods("GET")
	apiCreate.Handle("/files/{file_id}", api.Middleware(http.HandlerFunc(f.DeleteHandler))).Methods("DELETE")

	apiCreate.Handle("/history", api.Middleware(http.HandlerFunc(h.ListHandler))).Methods("GET")

	apiCreate.Handle("/metrics", api.Middleware(http.HandlerFunc(metrics.SummaryHandler))).Methods("GET")

	r.Use(api.MetricsMiddleware)

	return r
}

// Initialize is invoked by main to connect the storage backing and create a router
func (a *App) Initialize() error {
	if a.Clock == nil {
		a.Clock = databases.SystemClock{}
	}

	store, err := newStore(&a.Config)
	if err != nil {
		// if we fail to open the backing store, then kill the pod
		zap.S().With(err).Error("failed to open backing store")
		return err
	}
	a.Store = store
	zap.S().Infow("codedrop-api connected to the backing store", "backend", a.Config.StorageBackend)

	if a.Config.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		blob, err := storage.NewS3BlobStore(ctx, storage.S3Config{
			Region:       a.Config.S3Region,
			BaseEndpoint: a.Config.S3BaseEndpoint,
			Bucket:       a.Config.S3Bucket,
			AccessKey:    a.Config.S3AccessKey,
			SecretKey:    a.Config.S3SecretKey,
		})
		if err != nil {
			zap.S().With(err).Error("failed to create blob store client")
			return err
		}
		a.Blob = blob
	} else {
		zap.S().Warn("S3_BUCKET not set, file uploads disabled")
	}

	a.Scheduler = scheduler.NewScheduler(databases.NewExpiryManager(a.Store, a.Clock), a.Clock)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func newStore(conf *config.Config) (storage.KeyValueStore, error) {
	switch conf.StorageBackend {
	case "memory":
		// documented tradeoff: contents are lost on restart
		return storage.NewMemoryStore(), nil
	case "file":
		return storage.NewFileStore(conf.StorageFilePath)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewMongoStore(ctx, conf.MongoURI, conf.DatabaseName, conf.CollectionName)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.StorageBackend)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
