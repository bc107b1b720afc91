// Package services – WishService
//
// This file implements WishService, the application-level component that owns
// the lifecycle of wish records. It validates and canonicalizes input through
// the normalize package, coordinates repository operations for create, read,
// partial update, delete, title search, and price filtering, and emits audit
// events for every successful mutation.
//
// Service-level errors (ErrWishNotFound, *normalize.ValidationError) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently; anything else is an unexpected store fault.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the wish id where applicable.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-wishlist-backend/internal/domain"
	"github.com/tbourn/go-wishlist-backend/internal/normalize"
	"github.com/tbourn/go-wishlist-backend/internal/repo"
	"github.com/tbourn/go-wishlist-backend/internal/search"
)

// WishInput is the loosely-typed payload of a create or partial-update
// request. Fields are raw JSON so that absent, null, and typed values remain
// distinguishable: on update, an absent field is left untouched, while an
// explicit null clears an optional field (and is rejected for title).
type WishInput struct {
	Title         json.RawMessage `json:"title"`
	Link          json.RawMessage `json:"link"`
	PriceEstimate json.RawMessage `json:"price_estimate"`
	Notes         json.RawMessage `json:"notes"`
}

// WishService provides wish-record operations over an injected store handle.
// Instantiate one per process (or per test, with an isolated database).
type WishService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Audit receives one event per successful mutation.
	Audit *Auditor

	// Clock overrides the time source; nil means time.Now. Tests use it to
	// pin updated_at values.
	Clock func() time.Time
}

// NewWishService constructs a WishService with the default audit stream.
func NewWishService(db *gorm.DB) *WishService {
	return &WishService{DB: db, Audit: DefaultAuditor()}
}

func (s *WishService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Create validates all supplied fields, persists a new wish (the store
// assigns the id), stamps updated_at, and emits a create audit event.
func (s *WishService) Create(ctx context.Context, in WishInput) (*domain.Wish, error) {
	ctx, span := otel.Tracer("services/WishService").Start(ctx, "Create")
	defer span.End()

	title, err := normalize.Title(in.Title, false)
	if err != nil {
		return nil, err
	}
	link, err := normalize.Link(in.Link)
	if err != nil {
		return nil, err
	}
	price, err := normalize.Price(in.PriceEstimate)
	if err != nil {
		return nil, err
	}
	notes, err := normalize.Notes(in.Notes)
	if err != nil {
		return nil, err
	}

	w := &domain.Wish{
		Title:         title,
		Link:          link,
		PriceEstimate: price,
		Notes:         notes,
		UpdatedAt:     normalize.Timestamp(s.now()),
	}
	if err := repo.CreateWish(ctx, s.DB, w); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("wish.id", int64(w.ID)))
	s.Audit.Record(ctx, "create", w.ID, true)
	return w, nil
}

// Get fetches a wish by id, returning ErrWishNotFound when absent.
func (s *WishService) Get(ctx context.Context, id uint) (*domain.Wish, error) {
	ctx, span := otel.Tracer("services/WishService").Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.Int64("wish.id", int64(id)))

	w, err := repo.GetWish(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrWishNotFound
		}
		return nil, err
	}
	return w, nil
}

// Update applies a partial update: only fields present in the input are
// normalized and overwritten, the rest keep their prior value. updated_at
// advances on every successful update regardless of which fields changed.
func (s *WishService) Update(ctx context.Context, id uint, in WishInput) (*domain.Wish, error) {
	ctx, span := otel.Tracer("services/WishService").Start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("wish.id", int64(id)))

	w, err := repo.GetWish(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrWishNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		title, err := normalize.Title(in.Title, true)
		if err != nil {
			return nil, err
		}
		w.Title = title
	}
	if in.Link != nil {
		link, err := normalize.Link(in.Link)
		if err != nil {
			return nil, err
		}
		w.Link = link
	}
	if in.PriceEstimate != nil {
		price, err := normalize.Price(in.PriceEstimate)
		if err != nil {
			return nil, err
		}
		w.PriceEstimate = price
	}
	if in.Notes != nil {
		notes, err := normalize.Notes(in.Notes)
		if err != nil {
			return nil, err
		}
		w.Notes = notes
	}

	w.UpdatedAt = normalize.Timestamp(s.now())
	if err := repo.SaveWish(ctx, s.DB, w); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, "update", w.ID, true)
	return w, nil
}

// Delete removes a wish by id. The removal is hard; the id is never reused.
func (s *WishService) Delete(ctx context.Context, id uint) error {
	ctx, span := otel.Tracer("services/WishService").Start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("wish.id", int64(id)))

	if _, err := repo.GetWish(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrWishNotFound
		}
		return err
	}
	if err := repo.DeleteWish(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrWishNotFound
		}
		return err
	}
	s.Audit.Record(ctx, "delete", id, true)
	return nil
}

// Search returns all wishes whose title contains term as a literal
// substring, case-insensitively. Metacharacters in the term are escaped, so
// wildcard- or quote-heavy terms only ever match themselves; "no results" is
// an empty list, never an error.
func (s *WishService) Search(ctx context.Context, term string) ([]domain.Wish, error) {
	ctx, span := otel.Tracer("services/WishService").Start(ctx, "Search")
	defer span.End()

	term, err := normalize.SearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchWishes(ctx, s.DB, search.SubstringPattern(term))
}

// FilterPriceBelow returns all wishes with a non-null price estimate
// strictly below the given threshold, which is normalized with the same
// rules as a price field.
func (s *WishService) FilterPriceBelow(ctx context.Context, threshold string) ([]domain.Wish, error) {
	ctx, span := otel.Tracer("services/WishService").Start(ctx, "FilterPriceBelow")
	defer span.End()

	p, err := normalize.PriceLiteral(threshold)
	if err != nil {
		return nil, err
	}
	return repo.ListWishesPriceBelow(ctx, s.DB, *p)
}
