// Package main our entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/johndosdos/talkroom/internal/auth"
	"github.com/johndosdos/talkroom/internal/config"
	"github.com/johndosdos/talkroom/internal/database/migrations"
	"github.com/johndosdos/talkroom/internal/handler"
	"github.com/johndosdos/talkroom/internal/iconstore"
	"github.com/johndosdos/talkroom/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load(true)
	if err != nil {
		log.Fatal(err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting application...")

	// Init DB
	log.Println("Initializing Database connection...")

	dbConn, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("could not connect to the postgresql database: %v", err)
	}
	defer dbConn.Close()

	dbForGoose := stdlib.OpenDBFromPool(dbConn)
	if err := migrations.Up(dbForGoose); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if err := dbForGoose.Close(); err != nil {
		log.Printf("failed to close migration connection: %v", err)
	}

	// Init icon storage
	var icons iconstore.Store
	routerOpts := handler.RouterOptions{StaticDir: "static"}
	if cfg.S3.Enabled() {
		icons, err = iconstore.NewS3(ctx, iconstore.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			log.Fatalf("failed to init icon storage: %v", err)
		}
		slog.InfoContext(ctx, "storing icons in bucket", slog.String("bucket", cfg.S3.Bucket))
	} else {
		icons = iconstore.NewDisk(cfg.MediaDir, "/media/")
		routerOpts.MediaDir = cfg.MediaDir
		slog.InfoContext(ctx, "storing icons on disk", slog.String("dir", cfg.MediaDir))
	}

	db := store.NewPostgres(dbConn)
	h := handler.New(handler.Deps{
		Store:    db,
		Sessions: auth.NewSessions(db, cfg.JWTSecret, cfg.CookieSecure),
		Icons:    icons,
	})

	// Init server
	port := strconv.Itoa(cfg.Port)
	server := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           h.Router(routerOpts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		log.Printf("Server starting at 0.0.0.0:%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println(err)
	}

	log.Println("Server stopped")
}
