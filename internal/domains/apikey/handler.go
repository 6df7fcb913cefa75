package apikey

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/shared/middleware"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/response"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/api-keys, masked previews only.
func (h *Handler) List(c *gin.Context) {
	keys, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, keys)
}

// Create handles POST /admin/api-keys. The full key appears in this
// response and nowhere else.
func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Name   string   `json:"name"`
		Scopes []string `json:"scopes"`
	}
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	created, err := h.service.Create(c.Request.Context(), req.Name, req.Scopes, ident.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// Delete handles DELETE /admin/api-keys.
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

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "api key not found")
	case errors.Is(err, ErrMissingID):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[APIKEY] Request failed")
		response.InternalServerError(c, "internal server error")
	}
}
