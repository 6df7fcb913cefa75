package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/queue"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/storage"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/transcode"
)

// ThumbnailHandler runs the receiving side of the thumbnail pipeline:
// images are resized in place, videos go to the external transcoder,
// audio is a terminal no-op.
type ThumbnailHandler struct {
	media      *media.Service
	storage    *storage.MinIOStorage
	processor  *storage.ImageProcessor
	transcoder *transcode.Client
}

func NewThumbnailHandler(mediaService *media.Service, st *storage.MinIOStorage, processor *storage.ImageProcessor, transcoder *transcode.Client) *ThumbnailHandler {
	return &ThumbnailHandler{
		media:      mediaService,
		storage:    st,
		processor:  processor,
		transcoder: transcoder,
	}
}

func (h *ThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("[Worker] Failed to unmarshal thumbnail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	mediaID := payload.MediaID
	if mediaID == "" {
		mediaID = mediaIDFromKey(payload.S3Key)
	}
	if mediaID == "" {
		// Keys outside media/{kind}/{id}/{file} carry no correlation id.
		log.Warn().Str("key", payload.S3Key).Msg("[Worker] No media id derivable from key, skipping")
		return nil
	}

	record, err := h.media.Load(ctx, mediaID)
	if err != nil {
		log.Warn().Err(err).Str("media_id", mediaID).Msg("[Worker] Media record not found, skipping")
		return nil
	}

	switch record.MediaType {
	case media.KindImage:
		return h.processImage(ctx, mediaID, payload.S3Key)
	case media.KindVideo:
		return h.submitVideo(ctx, mediaID, payload.S3Key)
	case media.KindAudio:
		// Clients render a static icon for audio.
		log.Info().Str("media_id", mediaID).Msg("[Worker] Audio item, nothing to generate")
		return nil
	default:
		log.Warn().Str("media_id", mediaID).Str("kind", record.MediaType).Msg("[Worker] Unknown media kind, skipping")
		return nil
	}
}

func (h *ThumbnailHandler) processImage(ctx context.Context, mediaID, key string) error {
	data, err := h.storage.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}

	thumb, err := h.processor.Thumbnail(data)
	if err != nil {
		return fmt.Errorf("generate thumbnail for %s: %w", mediaID, err)
	}

	thumbKey := fmt.Sprintf("thumbnails/%s/thumb.jpg", mediaID)
	if err := h.storage.Upload(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
		return fmt.Errorf("upload thumbnail %s: %w", thumbKey, err)
	}

	if err := h.media.SetThumbnailKey(ctx, mediaID, thumbKey); err != nil {
		return fmt.Errorf("record thumbnail for %s: %w", mediaID, err)
	}

	log.Info().Str("media_id", mediaID).Str("thumbnail_key", thumbKey).Msg("[Worker] Thumbnail generated")
	return nil
}

func (h *ThumbnailHandler) submitVideo(ctx context.Context, mediaID, key string) error {
	if !h.transcoder.Enabled() {
		log.Warn().Str("media_id", mediaID).Msg("[Worker] No transcoder configured, video thumbnail skipped")
		return nil
	}
	if err := h.transcoder.SubmitJob(ctx, mediaID, key); err != nil {
		return fmt.Errorf("submit transcode for %s: %w", mediaID, err)
	}
	log.Info().Str("media_id", mediaID).Msg("[Worker] Transcode job submitted")
	return nil
}

// TranscodeCompleteHandler applies the metadata update when the
// transcoder reports a finished job, correlated by media id.
type TranscodeCompleteHandler struct {
	media *media.Service
}

func NewTranscodeCompleteHandler(mediaService *media.Service) *TranscodeCompleteHandler {
	return &TranscodeCompleteHandler{media: mediaService}
}

func (h *TranscodeCompleteHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.TranscodeCompletePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("[Worker] Failed to unmarshal transcode payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.Status != "" && payload.Status != "COMPLETE" && payload.Status != "complete" {
		log.Warn().
			Str("media_id", payload.MediaID).
			Str("status", payload.Status).
			Msg("[Worker] Transcode job did not complete, no update")
		return nil
	}

	thumbKey := payload.ThumbnailKey
	if thumbKey == "" {
		thumbKey = fmt.Sprintf("thumbnails/%s/thumb.jpg", payload.MediaID)
	}

	if err := h.media.SetThumbnailKey(ctx, payload.MediaID, thumbKey); err != nil {
		if errors.Is(err, media.ErrBadThumbnailKey) {
			// Retrying cannot make a raw transcoder output displayable.
			log.Warn().
				Str("media_id", payload.MediaID).
				Str("thumbnail_key", thumbKey).
				Msg("[Worker] Callback key is not thumbnail eligible, dropping")
			return nil
		}
		return fmt.Errorf("record transcoded thumbnail for %s: %w", payload.MediaID, err)
	}

	log.Info().Str("media_id", payload.MediaID).Str("thumbnail_key", thumbKey).Msg("[Worker] Transcode completion recorded")
	return nil
}

// mediaIDFromKey extracts the correlation id from keys shaped like
// media/{kind}/{mediaId}/{filename}.
func mediaIDFromKey(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 4 || parts[0] != "media" {
		return ""
	}
	return parts[2]
}
