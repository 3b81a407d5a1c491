package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/authz"
	"github.com/ratehub/ratehub/internal/platform/httpx"
	"github.com/ratehub/ratehub/internal/shared"
)

// Handler manages user management endpoints. All routes require a valid
// bearer token; per-record access is self-or-admin.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authn   auth.Middleware
	authz   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authn auth.Middleware, az authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authn: authn, authz: az}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authn.Authenticate)
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(auth.RoleAdmin))
		r.Get("/", h.list)
		r.Delete("/{id}", h.delete)
	})
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(page, perPage, 0)
	list, total, err := h.service.List(r.Context(), pagination.PerPage, pagination.Offset())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":      list,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "user id must be an integer")
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if d := authz.Evaluate(claims, authz.SelfOrRole(id, auth.RoleAdmin)); !d.Allow {
		authz.Deny(w, d)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type updateRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Role    *string `json:"role"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "user id must be an integer")
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if d := authz.Evaluate(claims, authz.SelfOrRole(id, auth.RoleAdmin)); !d.Allow {
		authz.Deny(w, d)
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	params := UpdateParams{Name: req.Name, Address: req.Address}
	if req.Role != nil {
		role := auth.Role(*req.Role)
		params.Role = &role
	}

	user, err := h.service.Update(r.Context(), claims, id, params)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user updated", slog.Int64("user_id", id), slog.Int64("actor_id", claims.UserID))
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "user id must be an integer")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
