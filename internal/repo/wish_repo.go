// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Wish model.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-wishlist-backend/internal/domain"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CreateWish inserts a new wish row; the store assigns the id.
func CreateWish(ctx context.Context, db *gorm.DB, w *domain.Wish) error {
	return db.WithContext(ctx).Create(w).Error
}

// GetWish fetches a wish by id, returning ErrNotFound when absent.
func GetWish(ctx context.Context, db *gorm.DB, id uint) (*domain.Wish, error) {
	var w domain.Wish
	err := db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// SaveWish persists all columns of an existing wish row. Save is used
// instead of Updates so that fields cleared to nil are written as NULL.
func SaveWish(ctx context.Context, db *gorm.DB, w *domain.Wish) error {
	return db.WithContext(ctx).Save(w).Error
}

// DeleteWish removes a wish row by id. The row is hard-deleted; ids are
// never recycled (AUTOINCREMENT).
func DeleteWish(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Wish{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchWishes returns all wishes whose title matches the given LIKE
// pattern, in id order. The pattern must come from search.SubstringPattern
// so metacharacters in the original term are already escaped; the ESCAPE
// clause makes the backslash escapes effective.
func SearchWishes(ctx context.Context, db *gorm.DB, pattern string) ([]domain.Wish, error) {
	out := []domain.Wish{}
	err := db.WithContext(ctx).
		Where(`title LIKE ? ESCAPE '\'`, pattern).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// ListWishesPriceBelow returns all wishes with a non-null price estimate
// strictly below threshold, in store iteration (id) order.
func ListWishesPriceBelow(ctx context.Context, db *gorm.DB, threshold domain.Price) ([]domain.Wish, error) {
	out := []domain.Wish{}
	err := db.WithContext(ctx).
		Where("price_estimate IS NOT NULL AND price_estimate < ?", threshold).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
