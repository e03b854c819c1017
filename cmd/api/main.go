package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GoSim-25-26J-441/project-records/config"
	"github.com/GoSim-25-26J-441/project-records/internal/bootstrap"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/cleanup"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/service"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/blob"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := bootstrap.OpenDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	log.Printf("database connected (driver %s)", dialect.Name)

	blobs, err := bootstrap.OpenBlobStore(ctx, &cfg.Blob)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	pub, closePub, err := bootstrap.OpenPublisher(ctx, &cfg.Events)
	if err != nil {
		log.Fatalf("events: %v", err)
	}
	defer closePub()

	repo := repository.NewProjectRepository(db, dialect)
	svc := service.NewProjectService(repo, blobs, pub, service.Options{
		CleanupBlobs:  cfg.Blob.Cleanup,
		MaxPhotoBytes: cfg.Blob.MaxUploadBytes,
	})

	if cfg.Sweep.Schedule != "" {
		sched := cleanup.NewScheduler(cleanup.NewSweeper(repo, blobs, cfg.Sweep.Grace))
		if err := sched.Start(cfg.Sweep.Schedule); err != nil {
			log.Fatalf("sweeper: %v", err)
		}
		defer sched.Stop()
	}

	var uploadDir string
	if local, ok := blobs.(*blob.Local); ok {
		uploadDir = local.Dir()
	}

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Server:      cfg.Server,
		DB:          db,
		Projects:    svc,
		// multipart overhead on top of the photo itself
		MaxBodyBytes: cfg.Blob.MaxUploadBytes + 1<<20,
		UploadDir:    uploadDir,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
