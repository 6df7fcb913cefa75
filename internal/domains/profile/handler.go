package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/group"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/middleware"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/response"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/utils"
)

type Handler struct {
	service *Service
	groups  *group.Service
}

func NewHandler(service *Service, groups *group.Service) *Handler {
	return &Handler{service: service, groups: groups}
}

// Me handles GET /me: the caller's identity plus profile display fields.
func (h *Handler) Me(c *gin.Context) {
	ident := middleware.GetIdentity(c)

	p, err := h.service.GetSelf(c.Request.Context(), ident.UserID, c.ClientIP())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"userId":      ident.UserID,
		"email":       ident.Email,
		"role":        ident.Role.String(),
		"groups":      ident.Groups,
		"displayName": p.DisplayName,
		"handle":      p.Handle,
		"photoUrl":    h.service.PhotoURL(c.Request.Context(), p),
	})
}

// GetSelf handles GET /profile.
func (h *Handler) GetSelf(c *gin.Context) {
	ident := middleware.GetIdentity(c)

	p, err := h.service.GetSelf(c.Request.Context(), ident.UserID, c.ClientIP())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.render(c, p, true))
}

// Update handles PUT /profile.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateReq
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	p, err := h.service.Update(c.Request.Context(), ident.UserID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.render(c, p, true))
}

// PhotoUploadURL handles POST /profile/photo-upload.
func (h *Handler) PhotoUploadURL(c *gin.Context) {
	var req struct {
		Filename string `json:"filename"`
	}
	utils.BindLenient(c, &req)

	ident := middleware.GetIdentity(c)
	out, err := h.service.PhotoUploadURL(c.Request.Context(), ident.UserID, req.Filename)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Lookup handles GET /profile/:identifier. Private profiles answer 403,
// unknown identifiers 404.
func (h *Handler) Lookup(c *gin.Context) {
	p, err := h.service.Lookup(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.render(c, p, false))
}

// AdminListUsers handles GET /admin/users: every profile with its
// custom-group memberships.
func (h *Handler) AdminListUsers(c *gin.Context) {
	profiles, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	type userWithGroups struct {
		Profile
		Groups []group.Membership `json:"groups"`
	}
	out := make([]userWithGroups, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, userWithGroups{
			Profile: p,
			Groups:  h.groups.GroupsOf(c.Request.Context(), p.UserID),
		})
	}
	response.Success(c, http.StatusOK, out)
}

// render builds the response shape. Owners see everything; public
// lookups get the display fields only.
func (h *Handler) render(c *gin.Context, p *Profile, owner bool) gin.H {
	out := gin.H{
		"userId":      p.UserID,
		"displayName": p.DisplayName,
		"handle":      p.Handle,
		"bio":         p.Bio,
		"public":      p.Public,
		"photoUrl":    h.service.PhotoURL(c.Request.Context(), p),
	}
	if owner {
		out["photoKey"] = p.PhotoKey
		out["lastLoginAt"] = p.LastLoginAt
		out["updatedAt"] = p.UpdatedAt
	}
	return out
}

func (h *Handler) fail(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", vErrs)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "profile not found")
	case errors.Is(err, ErrPrivate):
		response.Forbidden(c, "profile is private")
	case errors.Is(err, ErrHandleTaken):
		response.Conflict(c, "handle is already taken")
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[PROFILE] Request failed")
		response.InternalServerError(c, "internal server error")
	}
}
