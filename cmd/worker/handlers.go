package main

import (
	"github.com/hibiken/asynq"

	mediaJob "github.com/EchoNin9/orangewhip.surf/internal/domains/media/job"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/queue"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/storage"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/transcode"
	"github.com/EchoNin9/orangewhip.surf/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	thumbnail         *mediaJob.ThumbnailHandler
	transcodeComplete *mediaJob.TranscodeCompleteHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	processor := storage.NewImageProcessor()
	transcoder := transcode.NewClient(c.Config.Transcode.Endpoint)

	return &HandlerRegistry{
		thumbnail:         mediaJob.NewThumbnailHandler(c.MediaService, c.Storage, processor, transcoder),
		transcodeComplete: mediaJob.NewTranscodeCompleteHandler(c.MediaService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskTypeThumbnail, h.thumbnail.ProcessTask)
	mux.HandleFunc(queue.TaskTypeTranscodeComplete, h.transcodeComplete.ProcessTask)
}
