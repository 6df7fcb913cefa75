package show

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
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

// List handles GET /shows. With ?id= it returns one enriched show.
func (h *Handler) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		sh, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, sh)
		return
	}

	listing, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

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
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", vErrs)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "show not found")
	case errors.Is(err, ErrMissingID):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[SHOW] Request failed")
		response.InternalServerError(c, "internal server error")
	}
}
