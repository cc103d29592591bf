package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qiniu/reviewsync/internal/api"
	"github.com/qiniu/reviewsync/internal/config"
	"github.com/qiniu/reviewsync/internal/ghclient"
	"github.com/qiniu/reviewsync/internal/ghclient/auth"
	"github.com/qiniu/reviewsync/internal/issue"
	syncpkg "github.com/qiniu/reviewsync/internal/sync"
	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/qiniu/x/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	log.Infof("Starting reviewsync for %s/%s, phase=%s, poll interval=%s",
		cfg.Repo.Owner, cfg.Repo.Name, cfg.Session.Phase, cfg.Sync.PollInterval)

	authenticator, err := auth.BuildAuthenticator(cfg)
	if err != nil {
		log.Fatalf("Failed to build authenticator: %v", err)
	}
	log.Infof("Using %s authentication", authenticator.Type())

	httpClient, err := authenticator.HTTPClient(context.Background())
	if err != nil {
		log.Fatalf("Failed to create authenticated HTTP client: %v", err)
	}

	client := ghclient.NewClient(httpClient, cfg.Repo.Owner, cfg.Repo.Name, cfg.Sync.PageSize)
	client.SetSessionMeta(cfg.Session.SessionID, cfg.Session.ClientVersion)

	// 阶段和队伍在进程生命周期内固定，构造闭包捕获
	var team *models.Team
	if cfg.Session.TeamID != "" {
		team = &models.Team{ID: cfg.Session.TeamID}
	}
	build := func(record *models.Record) *issue.Issue {
		return issue.New(record, cfg.Session.Phase, team)
	}

	synchronizer := syncpkg.NewSynchronizer(
		client,
		build,
		cfg.Sync.PollInterval,
		models.RecordFilter{State: "open"},
		cfg.Session.SessionID,
	)
	synchronizer.Start()

	mux := http.NewServeMux()
	api.NewHandler(synchronizer).Register(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		log.Infof("HTTP server listening on :%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infof("Shutting down...")
	synchronizer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}

	log.Infof("Bye")
}
