package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	memphotos "salva-mascotas/internal/adapters/photos/memory"
	mem "salva-mascotas/internal/adapters/storage/memory"
	pg "salva-mascotas/internal/adapters/storage/postgres"
	"salva-mascotas/internal/adapters/vision/openai"
	"salva-mascotas/internal/domain/matches"
	"salva-mascotas/internal/domain/pets"
	"salva-mascotas/internal/middleware"
	"salva-mascotas/internal/platform/logger"
	"salva-mascotas/internal/platform/tasks"
	"salva-mascotas/internal/ports/photos"
	"salva-mascotas/internal/ports/vision"

	_ "salva-mascotas/docs" // swagger spec generado
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory (modo dev).
	DB *sql.DB

	// Oráculo de similitud. nil => cliente degradado (todo score 0).
	Scorer vision.Scorer

	// Storage de fotos. nil => in-memory (modo dev/tests).
	Photos photos.Store

	// Directorio local de fotos para servir /uploads/* ("" = no servir).
	UploadsDir string

	// Runner para el discovery oportunista. nil => runner propio.
	Tasks *tasks.Runner

	Log *zap.SugaredLogger

	AllowedOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	runner := opts.Tasks
	if runner == nil {
		runner = tasks.NewRunner(log, 0)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warnw("failed to open postgres, falling back to in-memory", "error", err)
			}
		}
	}

	var (
		petsRepo  pets.Repository
		matchRepo matches.Repository
	)
	if db != nil {
		pr := pg.NewPetsRepo(db)
		petsRepo = pr
		matchRepo = pg.NewMatchesRepo(db)
	} else {
		petsRepo = mem.NewPetsRepo()
		matchRepo = mem.NewMatchesRepo()
	}

	photoStore := opts.Photos
	if photoStore == nil {
		photoStore = memphotos.NewStore()
	}

	scorer := opts.Scorer
	if scorer == nil {
		// sin config => oráculo degradado, todo score 0
		scorer = openai.NewClient(openai.Config{}, log)
	}

	// Services por módulo
	petsSvc := pets.NewService(petsRepo, photoStore)
	engine := matches.NewEngine(matchRepo, petsRepo, scorer, log)
	matchesSvc := matches.NewService(matchRepo, petsRepo, log)

	// Discovery oportunista: corre después de responder la creación,
	// como tarea con nombre para que tests y shutdown puedan drenarla.
	hooks := pets.Hooks{
		OnLostCreated: func(p pets.LostPet) {
			runner.Go("discovery-lost-"+p.ID, func(ctx context.Context) error {
				_, err := engine.DiscoverForLost(ctx, p)
				return err
			})
		},
		OnFoundCreated: func(p pets.FoundPet) {
			runner.Go("discovery-found-"+p.ID, func(ctx context.Context) error {
				_, err := engine.DiscoverForFound(ctx, p)
				return err
			})
		},
	}

	pets.RegisterRoutes(r, petsSvc, hooks)
	matches.RegisterRoutes(r, matchesSvc, engine)

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Get("/swagger/*", httpSwagger.Handler())

	return r
}
