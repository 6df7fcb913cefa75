package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types routed through the media queue
const (
	TaskTypeThumbnail         = "media:thumbnail"
	TaskTypeTranscodeComplete = "media:transcode_complete"

	QueueMedia = "media"
)

// ThumbnailPayload carries everything the worker needs to derive a
// preview without another API round trip.
type ThumbnailPayload struct {
	MediaID string `json:"media_id"`
	S3Key   string `json:"s3_key"`
}

// TranscodeCompletePayload signals a finished video transcode job.
type TranscodeCompletePayload struct {
	MediaID      string `json:"media_id"`
	ThumbnailKey string `json:"thumbnail_key"`
	Status       string `json:"status"`
}

func NewThumbnailTask(p ThumbnailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeThumbnail, payload), nil
}

func NewTranscodeCompleteTask(p TranscodeCompletePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTranscodeComplete, payload), nil
}
