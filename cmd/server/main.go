package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/npezzotti/go-forum/internal/api"
	"github.com/npezzotti/go-forum/internal/config"
	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/media"
	"github.com/npezzotti/go-forum/internal/render"
	"github.com/npezzotti/go-forum/internal/stats"
)

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	signingKey     string
	mediaDir       string
	migrate        bool
	allowedOrigins stringSliceFlag
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := log.New(os.Stderr, "[forum] ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Fatal("load .env:", err)
	}

	flag.StringVar(&addr, "addr", envOr("FORUM_ADDR", "localhost:8000"), "server address")
	flag.StringVar(&dsn, "dsn", envOr("FORUM_DSN", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"), "database connection string")
	flag.StringVar(&signingKey, "signing-key", envOr("FORUM_SIGNING_KEY", defaultSigningKey), "base64 encoded signing key")
	flag.StringVar(&mediaDir, "media-dir", envOr("FORUM_MEDIA_DIR", "media"), "directory for uploaded avatars")
	flag.BoolVar(&migrate, "migrate", true, "apply database migrations on startup")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	if len(allowedOrigins) == 0 {
		if origins := os.Getenv("FORUM_ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins.Set(origins)
		}
	}

	cfg, err := config.NewConfig(addr, dsn, signingKey, allowedOrigins, mediaDir)
	if err != nil {
		logger.Fatal("config:", err)
	}

	dbConn, err := database.NewPgForumRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if migrate {
		if err := dbConn.Migrate(); err != nil {
			logger.Fatal("db migrate:", err)
		}
	}

	tmpl, err := render.NewTemplateRenderer()
	if err != nil {
		logger.Fatal("templates:", err)
	}

	avatars, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		logger.Fatal("media:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	srv := api.NewForumApp(mux, logger, dbConn, tmpl, avatars, statsUpdater, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
