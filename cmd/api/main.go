package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"dentalAssistant/internal/assistant"
	"dentalAssistant/internal/config"
	"dentalAssistant/internal/dental"
	"dentalAssistant/internal/events"
	"dentalAssistant/internal/llm"
	"dentalAssistant/internal/server"
	"dentalAssistant/internal/session"
	"dentalAssistant/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	apiKey := cfg.AI.APIKey()
	if apiKey == "" {
		log.Println("inference: OPENROUTER_API_KEY not set, analyses will report a missing key")
	}
	client := llm.NewOpenAIClient(llm.Options{
		APIKey:  apiKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
	})
	log.Printf("inference ready: %s via %s", client.Model(), client.BaseURL())

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret, err = session.RandomSecret()
		if err != nil {
			log.Fatalf("failed to init sessions: %v", err)
		}
		log.Println("sessions: SESSION_SECRET not set, using an ephemeral secret")
	}

	store := session.NewInMemoryStore(cfg.Session.MaxSessions)
	sessions := session.Middleware{
		Store: store,
		Sessions: session.Manager{
			Secret:       secret,
			SecureCookie: cfg.Session.SecureCookie,
		},
	}

	handler := assistant.Handler{
		Analyzer: dental.NewAnalyzer(client),
		Events:   events.NewBroker(),
	}

	srv := server.New(server.Options{
		Port:         cfg.Port,
		WriteTimeout: cfg.WriteTimeout,
	}, handler, sessions, web.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown incomplete: %v", err)
			if err := srv.Close(); err != nil {
				log.Printf("close server: %v", err)
			}
		}
		return nil
	})

	g.Go(func() error {
		sweepSessions(gctx, store, cfg.Session.IdleTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func sweepSessions(ctx context.Context, store session.Store, maxIdle time.Duration) {
	interval := maxIdle / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(ctx, maxIdle); removed > 0 {
				log.Printf("sessions: swept %d idle, %d live", removed, store.Len())
			}
		}
	}
}
