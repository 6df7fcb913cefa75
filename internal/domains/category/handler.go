package category

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

func (h *Handler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	created, err := h.service.Create(c.Request.Context(), req.Name, req.Description, ident.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	var req struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	utils.BindLenient(c, &req)

	updated, err := h.service.Update(c.Request.Context(), utils.RequestID(c, req.ID), req.Name, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

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
		response.NotFound(c, "category not found")
	case errors.Is(err, ErrMissingID), errors.Is(err, ErrMissingName):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[CATEGORY] Request failed")
		response.InternalServerError(c, "internal server error")
	}
}
