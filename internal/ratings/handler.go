package ratings

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

// Handler manages rating endpoints. Reads are public; creation requires any
// authenticated user; mutation requires ownership or admin.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authn   auth.Middleware
	valid   *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authn auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authn: authn, valid: validator.New()}
}

// MountRoutes registers rating routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.authn.Authenticate)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(page, perPage, 0)
	list, total, err := h.service.List(r.Context(), pagination.PerPage, pagination.Offset())
	if err != nil {
		h.logger.Error("list ratings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"ratings":    list,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "rating id must be an integer")
		return
	}
	rating, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rating)
}

type createRequest struct {
	StoreID int64  `json:"storeId" validate:"required"`
	Score   int    `json:"score" validate:"required"`
	Comment string `json:"comment" validate:"max=500"`
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
	rating, err := h.service.Create(r.Context(), CreateParams{
		StoreID: req.StoreID,
		UserID:  claims.UserID,
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("rating created", slog.Int64("rating_id", rating.ID), slog.Int64("store_id", rating.StoreID))
	httpx.JSON(w, http.StatusCreated, rating)
}

type updateRequest struct {
	Score   *int    `json:"score"`
	Comment *string `json:"comment"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "rating id must be an integer")
		return
	}
	rating, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if d := authz.Evaluate(claims, authz.OwnerOrRole(rating.UserID, auth.RoleAdmin)); !d.Allow {
		authz.Deny(w, d)
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	updated, err := h.service.Update(r.Context(), id, UpdateParams{Score: req.Score, Comment: req.Comment})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "rating id must be an integer")
		return
	}
	rating, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if d := authz.Evaluate(claims, authz.OwnerOrRole(rating.UserID, auth.RoleAdmin)); !d.Allow {
		authz.Deny(w, d)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("rating deleted", slog.Int64("rating_id", id), slog.Int64("actor_id", claims.UserID))
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "rating deleted"})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
