package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "civitas/internal/admin/handler"
	"civitas/internal/allocation"
	allochandler "civitas/internal/allocation/handler"
	allocmem "civitas/internal/allocation/store/memory"
	allocpg "civitas/internal/allocation/store/postgres"
	"civitas/internal/audit"
	auditkafka "civitas/internal/audit/sink/kafka"
	auditmem "civitas/internal/audit/store/memory"
	auditpg "civitas/internal/audit/store/postgres"
	"civitas/internal/civilian"
	civhandler "civitas/internal/civilian/handler"
	civmem "civitas/internal/civilian/store/memory"
	civpg "civitas/internal/civilian/store/postgres"
	"civitas/internal/disclosure"
	discmetrics "civitas/internal/disclosure/metrics"
	"civitas/internal/platform/config"
	"civitas/internal/platform/httpserver"
	"civitas/internal/platform/logger"
	"civitas/internal/platform/metrics"
	"civitas/internal/platform/middleware"
	platformredis "civitas/internal/platform/redis"
	"civitas/internal/platform/token"
	"civitas/internal/rules"
	"civitas/internal/search"
	searchhandler "civitas/internal/search/handler"
	"civitas/internal/skills"
	skillshandler "civitas/internal/skills/handler"
	skillsmem "civitas/internal/skills/store/memory"
	skillspg "civitas/internal/skills/store/postgres"
	"civitas/internal/suggest"
)

// main is the composition root: it builds stores, services, and handlers,
// then runs the HTTP server until interrupted. Business logic lives in the
// internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx := context.Background()

	table := rules.Load(cfg.RulesPath, log)
	m := metrics.New()

	stores, err := buildStores(cfg, log)
	if err != nil {
		return err
	}
	defer stores.close()

	auditor := audit.NewPublisher(stores.audit, stores.auditSink, log)

	suggester, closeSuggester, err := buildSuggester(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSuggester()

	skillsSvc := skills.NewService(stores.skills, log)
	if err := skillsSvc.Seed(ctx); err != nil {
		return err
	}

	civilianSvc := civilian.NewService(stores.civilians, skillsSvc, suggester, table, auditor, m, log)
	allocationSvc := allocation.NewService(stores.allocations, civilianSvc, auditor, log)
	gate := disclosure.NewGate(allocationSvc, auditor, discmetrics.New(), log)
	searchSvc := search.NewService(stores.civilians, gate, table, m, log)

	validator := token.NewValidator(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.LatencyMiddleware(m))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	civhandler.New(civilianSvc, log, validator).Register(router)
	skillshandler.New(skillsSvc, log, validator).Register(router)
	allochandler.New(allocationSvc, log, validator).Register(router)
	searchhandler.New(searchSvc, log, validator).Register(router)
	adminhandler.New(auditor, log, validator).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// storeSet bundles every persistence handle so run can defer one cleanup.
type storeSet struct {
	civilians   civilian.Store
	skills      skills.Store
	allocations allocation.Store
	audit       audit.Store
	auditSink   audit.Sink

	db        *sql.DB
	kafkaSink *auditkafka.Sink
	redis     *platformredis.Client
}

func (s *storeSet) close() {
	if s.kafkaSink != nil {
		s.kafkaSink.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// buildStores selects postgres-backed stores when DATABASE_URL is set and
// in-memory stores otherwise, and attaches the optional kafka audit sink.
func buildStores(cfg config.Server, log *slog.Logger) (*storeSet, error) {
	stores := &storeSet{}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, err
		}
		stores.db = db
		stores.civilians = civpg.New(db)
		stores.skills = skillspg.New(db)
		stores.allocations = allocpg.New(db)
		stores.audit = auditpg.New(db)
		log.Info("using postgres stores")
	} else {
		stores.civilians = civmem.New()
		stores.skills = skillsmem.New()
		stores.allocations = allocmem.New()
		stores.audit = auditmem.New()
		log.Info("using in-memory stores")
	}

	if cfg.KafkaBrokers != "" {
		sink, err := auditkafka.New(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, log)
		if err != nil {
			stores.close()
			return nil, err
		}
		if sink != nil {
			stores.kafkaSink = sink
			stores.auditSink = sink
			log.Info("audit kafka sink enabled", "topic", cfg.KafkaTopic)
		}
	}

	return stores, nil
}

// buildSuggester assembles the tag suggester chain: Gemini when configured,
// always backed by the keyword fallback, optionally wrapped in a redis cache.
func buildSuggester(ctx context.Context, cfg config.Server, log *slog.Logger) (suggest.Suggester, func(), error) {
	cleanup := func() {}

	var primary suggest.Suggester
	if cfg.GeminiAPIKey != "" {
		gemini, err := suggest.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SuggesterTimeout, log)
		if err != nil {
			log.Warn("gemini suggester unavailable, keyword fallback only", "error", err)
		} else {
			primary = gemini
			cleanup = func() { _ = gemini.Close() }
		}
	}

	chain := suggest.NewChain(primary, suggest.NewKeyword(), log)

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, suggestion cache disabled", "error", err)
		return chain, cleanup, nil
	}
	if redisClient != nil {
		inner := cleanup
		cleanup = func() {
			_ = redisClient.Close()
			inner()
		}
		log.Info("suggestion cache enabled")
	}
	return suggest.NewCached(chain, redisClient, log), cleanup, nil
}
