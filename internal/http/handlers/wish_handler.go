// Wish HTTP handlers.
//
// This file exposes REST endpoints for wish resources:
//   - POST   /wishes          (create, idempotent with Idempotency-Key)
//   - GET    /wishes/{id}     (read)
//   - PATCH  /wishes/{id}     (partial update)
//   - DELETE /wishes/{id}     (delete)
//   - GET    /wishes/search   (title substring search)
//   - GET    /wishes?price<=X (price filter)
//
// Handlers are transport-thin: they parse input, call the wish service, and
// translate results into HTTP responses through the shared error taxonomy.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-wishlist-backend/internal/domain"
	"github.com/tbourn/go-wishlist-backend/internal/http/middleware"
	"github.com/tbourn/go-wishlist-backend/internal/normalize"
	"github.com/tbourn/go-wishlist-backend/internal/repo"
	"github.com/tbourn/go-wishlist-backend/internal/services"
)

// WishService defines the wish lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type WishService interface {
	Create(ctx context.Context, in services.WishInput) (*domain.Wish, error)
	Get(ctx context.Context, id uint) (*domain.Wish, error)
	Update(ctx context.Context, id uint, in services.WishInput) (*domain.Wish, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]domain.Wish, error)
	FilterPriceBelow(ctx context.Context, threshold string) ([]domain.Wish, error)
}

// Handlers groups the HTTP endpoints for wish resources. DB and
// IdempotencyTTL back the optional Idempotency-Key support on create; when
// DB is nil the header is validated but replays are not deduplicated.
type Handlers struct {
	svc WishService

	DB             *gorm.DB
	IdempotencyTTL time.Duration
}

// New constructs a Handlers instance bound to the given service.
func New(svc WishService) *Handlers {
	return &Handlers{svc: svc}
}

// renderError maps a service error onto the closed error taxonomy. Any error
// that is neither a validation failure nor a missing record is an unexpected
// fault: it is logged with context and rendered with a generic message.
func renderError(c *gin.Context, err error) {
	switch {
	case normalize.IsValidation(err):
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
	case errors.Is(err, services.ErrWishNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, services.ErrWishNotFound.Error())
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("unexpected service error")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// wishID parses the {id} path parameter. A non-numeric id is an input-shape
// violation, not a transport error.
func wishID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// CreateWish godoc
// @ID          createWish
// @Summary     Create a wish
// @Description Creates a wish record and returns its canonical representation.
// @Tags        Wishes
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Safe-retry key"
// @Param       body  body  services.WishInput  true  "Wish payload"
// @Success     201  {object}  domain.Wish
// @Failure     422  {object}  handlers.ErrorResponse  "Validation error"
// @Router      /wishes [post]
func (h *Handlers) CreateWish(c *gin.Context) {
	ctx := c.Request.Context()

	// Serve a stored result when the middleware flagged a replay.
	if middleware.IsReplay(c) && h.DB != nil {
		if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
			if rec, err := repo.GetIdempotency(ctx, h.DB, key, time.Now().UTC()); err == nil {
				if w, err := repo.GetWish(ctx, h.DB, rec.WishID); err == nil {
					status := rec.Status
					if status == 0 {
						status = http.StatusCreated
					}
					ok(c, status, w)
					return
				}
			}
		}
	}

	var in services.WishInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid JSON body")
		return
	}

	w, err := h.svc.Create(ctx, in)
	if err != nil {
		renderError(c, err)
		return
	}

	// Record the outcome for future replays; a lost record only costs the
	// dedup, never the request.
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey && h.DB != nil {
		ttl := h.IdempotencyTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		if _, err := repo.CreateIdempotency(ctx, h.DB, key, w.ID, http.StatusCreated, ttl); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, w)
}

// GetWish godoc
// @ID          getWish
// @Summary     Fetch a wish by id
// @Tags        Wishes
// @Produce     json
// @Param       id  path  int  true  "Wish ID"
// @Success     200  {object}  domain.Wish
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /wishes/{id} [get]
func (h *Handlers) GetWish(c *gin.Context) {
	id, okID := wishID(c)
	if !okID {
		return
	}
	w, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	ok(c, http.StatusOK, w)
}

// UpdateWish godoc
// @ID          updateWish
// @Summary     Partially update a wish
// @Description Overwrites only the fields present in the payload; updated_at always advances.
// @Tags        Wishes
// @Accept      json
// @Produce     json
// @Param       id    path  int                 true  "Wish ID"
// @Param       body  body  services.WishInput  true  "Any subset of wish fields"
// @Success     200  {object}  domain.Wish
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation error"
// @Router      /wishes/{id} [patch]
func (h *Handlers) UpdateWish(c *gin.Context) {
	id, okID := wishID(c)
	if !okID {
		return
	}
	var in services.WishInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid JSON body")
		return
	}
	w, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		renderError(c, err)
		return
	}
	ok(c, http.StatusOK, w)
}

// DeleteWish godoc
// @ID          deleteWish
// @Summary     Delete a wish
// @Tags        Wishes
// @Param       id  path  int  true  "Wish ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /wishes/{id} [delete]
func (h *Handlers) DeleteWish(c *gin.Context) {
	id, okID := wishID(c)
	if !okID {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	noContent(c)
}

// SearchWishes godoc
// @ID          searchWishes
// @Summary     Search wishes by title substring
// @Description Case-insensitive literal substring match; wildcards in the term are escaped.
// @Tags        Wishes
// @Produce     json
// @Param       q  query  string  true  "Search term (1–100 chars)"
// @Success     200  {array}   domain.Wish
// @Failure     422  {object}  handlers.ErrorResponse  "Validation error"
// @Router      /wishes/search [get]
func (h *Handlers) SearchWishes(c *gin.Context) {
	out, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		renderError(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// FilterWishes godoc
// @ID          filterWishes
// @Summary     List wishes priced strictly below a threshold
// @Tags        Wishes
// @Produce     json
// @Param       price<  query  string  true  "Exclusive upper price bound"
// @Success     200  {array}   domain.Wish
// @Failure     422  {object}  handlers.ErrorResponse  "Validation error"
// @Router      /wishes [get]
func (h *Handlers) FilterWishes(c *gin.Context) {
	raw, exists := c.GetQuery("price<")
	if !exists {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "price< query parameter is required")
		return
	}
	out, err := h.svc.FilterPriceBelow(c.Request.Context(), raw)
	if err != nil {
		renderError(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
