package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Dispatcher enqueues background work from the API process. Dispatch
// failures are logged, never surfaced: a media write must succeed even
// when the queue is down, the record just keeps a nil thumbnail.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(redisAddr, redisPassword string, redisDB int) *Dispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &Dispatcher{client: client}
}

// ScheduleThumbnail requests async thumbnail generation for a media record.
func (d *Dispatcher) ScheduleThumbnail(ctx context.Context, mediaID, s3Key string) {
	task, err := NewThumbnailTask(ThumbnailPayload{MediaID: mediaID, S3Key: s3Key})
	if err != nil {
		log.Error().Err(err).Str("media_id", mediaID).Msg("[QUEUE] Failed to build thumbnail task")
		return
	}

	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue(QueueMedia), asynq.MaxRetry(2))
	if err != nil {
		log.Error().Err(err).Str("media_id", mediaID).Msg("[QUEUE] Failed to enqueue thumbnail task")
		return
	}

	log.Info().
		Str("media_id", mediaID).
		Str("task_id", info.ID).
		Msg("[QUEUE] Thumbnail task enqueued")
}

// ScheduleTranscodeComplete forwards a transcoder callback to the worker.
func (d *Dispatcher) ScheduleTranscodeComplete(ctx context.Context, p TranscodeCompletePayload) error {
	task, err := NewTranscodeCompleteTask(p)
	if err != nil {
		return err
	}

	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueMedia), asynq.MaxRetry(2))
	return err
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
