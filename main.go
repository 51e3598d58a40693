package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (yaml, toml or json)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	hashKey := flag.String("hash-admin-key", "", "Print the bcrypt hash of an admin key and exit")
	issueFor := flag.String("issue-token", "", "Print an identity token for this email and exit")
	tokenName := flag.String("token-name", "", "Display name carried by -issue-token")
	flag.Parse()

	if *hashKey != "" {
		h, err := HashAdminKey(*hashKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(h)
		return
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if err := InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer zap.L().Sync()

	if err := run(cfg, *issueFor, *tokenName); err != nil {
		zap.L().Fatal("server failed", zap.Error(err))
	}
}

func run(cfg Config, issueFor, tokenName string) error {
	db, err := OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	auth, err := NewAuth(db, cfg.JWTSecret, cfg.AdminKeyHash)
	if err != nil {
		return err
	}
	if issueFor != "" {
		tok, err := auth.IssueToken(issueFor, tokenName, cfg.TokenTTL)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Println(tok)
		return nil
	}

	bans, err := NewBanList(db)
	if err != nil {
		return err
	}
	analytics := NewAnalytics(db)
	defer analytics.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	game := NewGame(cfg.Rules, bans, analytics, cfg.Moderators, rng)
	hub := NewHub(game, auth, bans, analytics, db)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           SetupRoutes(hub, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return game.Run(gctx) })
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return analytics.Run(gctx) })
	g.Go(func() error {
		zap.L().Info("server starting",
			zap.String("addr", cfg.Addr),
			zap.String("public_url", cfg.PublicURL),
			zap.Int("moderators", len(cfg.Moderators)))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(sctx)
	})

	return g.Wait()
}
