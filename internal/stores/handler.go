package stores

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/authz"
	"github.com/ratehub/ratehub/internal/platform/httpx"
	"github.com/ratehub/ratehub/internal/shared"
)

// Handler manages store endpoints. Reads are public; creation requires the
// storeowner or admin role; mutation requires ownership or admin.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authn   auth.Middleware
	authz   authz.Middleware
	valid   *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authn auth.Middleware, az authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authn: authn, authz: az, valid: validator.New()}
}

// MountRoutes registers store routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.authn.Authenticate)
		r.With(h.authz.RequireRole(auth.RoleStoreOwner, auth.RoleAdmin)).Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(page, perPage, 0)
	list, total, err := h.service.List(r.Context(), pagination.PerPage, pagination.Offset())
	if err != nil {
		h.logger.Error("list stores", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"stores":     list,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "store id must be an integer")
		return
	}
	store, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), id)
	if err != nil {
		h.logger.Warn("store summary", slog.Int64("store_id", id), slog.Any("error", err))
		summary = Summary{StoreID: id}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"store": store, "ratings": summary})
}

type createRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Address     string `json:"address" validate:"required,max=400"`
	Description string `json:"description" validate:"max=500"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.valid.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	store, err := h.service.Create(r.Context(), CreateParams{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		OwnerID:     claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("store created", slog.Int64("store_id", store.ID), slog.Int64("owner_id", store.OwnerID))
	httpx.JSON(w, http.StatusCreated, store)
}

type updateRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "store id must be an integer")
		return
	}
	store, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if d := authz.Evaluate(claims, authz.OwnerOrRole(store.OwnerID, auth.RoleAdmin)); !d.Allow {
		authz.Deny(w, d)
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	updated, err := h.service.Update(r.Context(), id, UpdateParams{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "store id must be an integer")
		return
	}
	store, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if d := authz.Evaluate(claims, authz.OwnerOrRole(store.OwnerID, auth.RoleAdmin)); !d.Allow {
		authz.Deny(w, d)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("store deleted", slog.Int64("store_id", id), slog.Int64("actor_id", claims.UserID))
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "store deleted"})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
