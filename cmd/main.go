package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/saeidalz13/battleship-engine/api"
	"github.com/saeidalz13/battleship-engine/db"
	"github.com/saeidalz13/battleship-engine/db/sqlc"
	"github.com/saeidalz13/battleship-engine/internal/config"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

// finished matches stay resumable for this long
const finishedMatchRetention = time.Hour * 24 * 7

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []api.Option{
		api.WithStage(cfg.Stage),
		api.WithAllowedOrigins(cfg.AllowedOrigins...),
	}
	if cfg.DatabaseUrl != "" {
		conn, dbManager := db.MustConnectToDb(cfg.DatabaseUrl)
		defer conn.Close()

		opts = append(opts, api.WithDbManager(dbManager))
		go pruneFinishedMatches(ctx, dbManager.Matches, cfg.SessionCleanupInterval)
	} else {
		log.Println("DATABASE_URL is empty; matches are kept in memory only")
	}

	sessionManager := mc.NewBattleshipSessionManager(cfg.SessionCleanupInterval)
	go sessionManager.CleanupPeriodically(ctx)

	rp, err := api.NewRequestProcessor(sessionManager, mb.NewBattleshipGameManager(), opts...)
	if err != nil {
		log.Fatalln(err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening to %s (stage: %s)\n", cfg.Addr(), cfg.Stage)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}

func pruneFinishedMatches(ctx context.Context, matches *sqlc.MatchManager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			queryCtx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
			pruned, err := matches.PruneFinished(queryCtx, time.Now().Add(-finishedMatchRetention))
			cancel()
			if err != nil {
				log.Println("failed to prune finished matches:", err)
				continue
			}
			if pruned > 0 {
				log.Printf("pruned %d finished matches\n", pruned)
			}
		}
	}
}
