package media

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/auth"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/queue"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/middleware"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/response"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/utils"
)

type Handler struct {
	service       *Service
	dispatcher    *queue.Dispatcher
	webhookSecret string
}

func NewHandler(service *Service, dispatcher *queue.Dispatcher, webhookSecret string) *Handler {
	return &Handler{service: service, dispatcher: dispatcher, webhookSecret: webhookSecret}
}

// List handles GET /media. With ?id= it returns a single item; private
// items resolve only for band members and up.
func (h *Handler) List(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	trusted := ident != nil && ident.Role.Satisfies(auth.RoleBand)

	if id := c.Query("id"); id != "" {
		item, err := h.service.GetByID(c.Request.Context(), id, trusted)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, item)
		return
	}

	items, err := h.service.List(c.Request.Context(), c.Query("type"), c.Query("q"), splitCSV(c.Query("categoryIds")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// ListAll handles GET /media/all.
func (h *Handler) ListAll(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context(), c.Query("type"), c.Query("q"), splitCSV(c.Query("categoryIds")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create handles POST /media.
func (h *Handler) Create(c *gin.Context) {
	var req CreateReq
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	created, err := h.service.Create(c.Request.Context(), req, ident.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// Update handles PUT /media.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateReq
	utils.BindLenient(c, &req)
	req.ID = utils.RequestID(c, req.ID)

	updated, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /media.
func (h *Handler) Delete(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	utils.BindLenient(c, &req)

	if err := h.service.Delete(c.Request.Context(), utils.RequestID(c, req.ID)); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadURL handles POST /media/upload.
func (h *Handler) UploadURL(c *gin.Context) {
	var req UploadURLReq
	utils.BindLenient(c, &req)

	out, err := h.service.UploadURL(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ThumbnailUploadURL handles POST /media/thumbnail-upload.
func (h *Handler) ThumbnailUploadURL(c *gin.Context) {
	var req struct {
		MediaID  string `json:"mediaId"`
		Filename string `json:"filename"`
	}
	utils.BindLenient(c, &req)

	out, err := h.service.ThumbnailUploadURL(c.Request.Context(), req.MediaID, req.Filename)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ImportFromURL handles POST /media/import-from-url.
func (h *Handler) ImportFromURL(c *gin.Context) {
	var req ImportReq
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	created, err := h.service.ImportFromURL(c.Request.Context(), req, ident.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// TranscodeWebhook handles POST /webhooks/transcode: the transcoder's
// completion callback, authenticated by a shared secret and forwarded
// to the worker through the queue.
func (h *Handler) TranscodeWebhook(c *gin.Context) {
	if h.webhookSecret == "" || c.GetHeader("X-Webhook-Secret") != h.webhookSecret {
		response.Unauthorized(c, "invalid webhook secret")
		return
	}

	var req struct {
		MediaID      string `json:"mediaId"`
		ThumbnailKey string `json:"thumbnailKey"`
		Status       string `json:"status"`
	}
	utils.BindLenient(c, &req)

	if req.MediaID == "" {
		response.BadRequest(c, "mediaId is required")
		return
	}

	err := h.dispatcher.ScheduleTranscodeComplete(c.Request.Context(), queue.TranscodeCompletePayload{
		MediaID:      req.MediaID,
		ThumbnailKey: req.ThumbnailKey,
		Status:       req.Status,
	})
	if err != nil {
		log.Error().Err(err).Str("media_id", req.MediaID).Msg("[MEDIA] Transcode callback enqueue failed")
		response.InternalServerError(c, "failed to queue completion")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"queued": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", vErrs)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "media not found")
	case errors.Is(err, ErrTooManyFiles):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrMissingID):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrImportTooBig):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrImportFailed):
		response.BadGateway(c, err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[MEDIA] Request failed")
		response.InternalServerError(c, "internal server error")
	}
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
