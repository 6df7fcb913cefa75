package group

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

// List handles GET /groups.
func (h *Handler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups)
}

// MyGroups handles GET /me/groups.
func (h *Handler) MyGroups(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	response.Success(c, http.StatusOK, h.service.GroupsOf(c.Request.Context(), ident.UserID))
}

// Join handles POST /me/groups.
func (h *Handler) Join(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	if err := h.service.Join(c.Request.Context(), ident.UserID, req.Name); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"joined": NormalizeName(req.Name)})
}

// Leave handles DELETE /me/groups/:name.
func (h *Handler) Leave(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	if err := h.service.Leave(c.Request.Context(), ident.UserID, c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"left": NormalizeName(c.Param("name"))})
}

// AdminList handles GET /admin/groups, groups with their member rows.
func (h *Handler) AdminList(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	type groupWithMembers struct {
		Group
		Members []Membership `json:"members"`
	}
	out := make([]groupWithMembers, 0, len(groups))
	for _, g := range groups {
		members, err := h.service.Members(c.Request.Context(), g.Name)
		if err != nil {
			members = []Membership{}
		}
		out = append(out, groupWithMembers{Group: g, Members: members})
	}
	response.Success(c, http.StatusOK, out)
}

// AdminCreate handles POST /admin/groups.
func (h *Handler) AdminCreate(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		SelfJoin    bool   `json:"selfJoin"`
	}
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	created, err := h.service.Create(c.Request.Context(), req.Name, req.Description, req.SelfJoin, ident.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// AdminUpdate handles PUT /admin/groups/:name.
func (h *Handler) AdminUpdate(c *gin.Context) {
	var req struct {
		Description *string `json:"description"`
		SelfJoin    *bool   `json:"selfJoin"`
	}
	utils.BindLenient(c, &req)

	updated, err := h.service.Update(c.Request.Context(), c.Param("name"), req.Description, req.SelfJoin)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// AdminDelete handles DELETE /admin/groups/:name.
func (h *Handler) AdminDelete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AdminAddMember handles POST /admin/users/:id/groups.
func (h *Handler) AdminAddMember(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	utils.BindLenient(c, &req)

	if err := h.service.AddMember(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"added": NormalizeName(req.Name)})
}

// AdminRemoveMember handles DELETE /admin/users/:id/groups/:name.
func (h *Handler) AdminRemoveMember(c *gin.Context) {
	if err := h.service.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": NormalizeName(c.Param("name"))})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "group not found")
	case errors.Is(err, ErrNoSelfJoin):
		response.Forbidden(c, "group does not allow self-join")
	case errors.Is(err, ErrMissingName):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[GROUP] Request failed")
		response.InternalServerError(c, "internal server error")
	}
}
