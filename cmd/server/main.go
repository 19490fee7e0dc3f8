package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pet-manager-api/internal/auth"
	"pet-manager-api/internal/config"
	"pet-manager-api/internal/grpcserver"
	"pet-manager-api/internal/handler"
	"pet-manager-api/internal/logging"
	"pet-manager-api/internal/middleware"
	"pet-manager-api/internal/schedule"
	"pet-manager-api/internal/store"
	"pet-manager-api/internal/telemetry"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply the database schema and exit")
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		fmt.Fprintln(os.Stderr, "pet-manager-api:", err)
		os.Exit(1)
	}
}

func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Info("connected to database", zap.String("driver", cfg.DB.Driver))

	if err := migrate(ctx, st, cfg.DB.Migrate, migrateOnly, log); err != nil {
		return err
	}
	if migrateOnly {
		return nil
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Otel)
	if err != nil {
		return err
	}

	lim := newLimiters(cfg.RateLimit)
	defer lim.stop()
	var authLimiter middleware.Limiter = lim.http
	failOpen := false
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		defer rdb.Close()
		authLimiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window, "petmgr:auth")
		failOpen = cfg.RateLimit.FailOpen
		log.Info("using shared rate limit", zap.String("redis", cfg.RateLimit.RedisAddr))
	}
	if cfg.RateLimit.TrustProxyHeaders {
		log.Info("rate limiting by X-Forwarded-For")
	}

	h, err := handler.New(st, auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn.Duration()),
		schedule.NewMemoryStore(), log, handler.Options{
			UniformLoginErrors: cfg.UniformLoginErrors,
			Location:           cfg.Location(),
			AuthLimit: middleware.Limit(authLimiter,
				middleware.ClientKey(cfg.RateLimit.TrustProxyHeaders), log, failOpen),
		})
	if err != nil {
		return err
	}

	r := mux.NewRouter()
	h.Routes(r)
	var root http.Handler = r
	root = middleware.CORS(cfg.CORSOrigins)(root)
	root = middleware.AccessLog(log)(root)
	root = middleware.RequestID(root)
	root = telemetry.Handler(root)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 2)

	// grpc health
	var gs *grpcserver.Server
	if cfg.GRPCEnabled() {
		lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Domain, cfg.GRPCPort))
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		gs = grpcserver.New(st, lim.grpc, log)
		go gs.Watch(ctx, 10*time.Second)
		go func() {
			if err := gs.Serve(lis); err != nil {
				errc <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	go func() {
		log.Info("server running", zap.String("addr", "http://"+cfg.Addr()+"/"))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errc:
		log.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if gs != nil {
		gs.Stop()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}
	return nil
}

// migrate applies the schema when DB_MIGRATE is on or -migrate-only was
// given.
func migrate(ctx context.Context, st *store.Store, enabled, only bool, log *zap.Logger) error {
	if !enabled && !only {
		return nil
	}
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	log.Info("schema applied")
	return nil
}

// limiters keeps gRPC health traffic out of the signup and login buckets.
type limiters struct {
	http *middleware.RateLimiter
	grpc *middleware.RateLimiter
}

func newLimiters(c config.RateLimit) *limiters {
	return &limiters{
		http: middleware.NewRateLimiter(c.RPS, c.Burst),
		grpc: middleware.NewRateLimiter(c.GRPCRPS, c.GRPCBurst),
	}
}

func (l *limiters) stop() {
	l.http.Stop()
	l.grpc.Stop()
}
