// Package embed serves the machine-consumable subset of site content
// for third-party pages, gated by API key instead of user tokens.
package embed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/show"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/update"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/response"
)

const updateFeedLimit = 10

type Handler struct {
	shows   *show.Service
	updates *update.Service
}

func NewHandler(shows *show.Service, updates *update.Service) *Handler {
	return &Handler{shows: shows, updates: updates}
}

// Shows handles GET /embed/shows: upcoming shows only.
func (h *Handler) Shows(c *gin.Context) {
	upcoming, err := h.shows.Upcoming(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[EMBED] Shows feed failed")
		response.InternalServerError(c, "internal server error")
		return
	}
	response.Success(c, http.StatusOK, upcoming)
}

// Updates handles GET /embed/updates: the newest visible posts.
func (h *Handler) Updates(c *gin.Context) {
	updates, err := h.updates.List(c.Request.Context(), false, updateFeedLimit)
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[EMBED] Updates feed failed")
		response.InternalServerError(c, "internal server error")
		return
	}
	response.Success(c, http.StatusOK, updates)
}
