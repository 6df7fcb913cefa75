package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/queue"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates and configures the Asynq server
func setupAsynqServer(cfg *Config, handlers *HandlerRegistry) *asynqServer {
	// Create ServeMux
	mux := asynq.NewServeMux()

	// Register all handlers
	handlers.RegisterHandlers(mux)

	// Create server with configuration
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Queues: map[string]int{
				queue.QueueMedia: 10,
				"default":        5,
			},
			Concurrency: cfg.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] ❌ Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	// Start server in goroutine
	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown gracefully shuts down the server, waiting for in-flight tasks.
func (s *asynqServer) Shutdown() {
	done := make(chan struct{})
	go func() {
		s.Server.Shutdown()
		close(done)
	}()

	log.Println("[Worker] Shutting down (waiting max 30s)...")
	select {
	case <-done:
		log.Println("[Worker] ✓ Gracefully stopped")
	case <-time.After(30 * time.Second):
		log.Println("[Worker] ⚠️ Shutdown timeout exceeded")
	}
}
