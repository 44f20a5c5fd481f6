package inventory

import (
	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
)

var (
	// ErrProductNotFound indicates the movement references an unknown product.
	ErrProductNotFound = shared.NewError(shared.ErrBusinessRule, "product not found")
	// ErrInsufficientStock indicates the movement would drive stock below zero.
	ErrInsufficientStock = shared.NewError(shared.ErrBusinessRule, "insufficient stock")
	// ErrInvalidQuantity indicates a zero quantity change.
	ErrInvalidQuantity = shared.NewError(shared.ErrValidation, "quantity change must not be zero")
)

// Movement describes one signed stock change and its origin.
type Movement struct {
	ProductID string
	Delta     int64
	RefModule domain.RefModule
	RefID     int64
	UserID    int64
	Note      string
}

// AdjustmentInput is a manual stock correction.
type AdjustmentInput struct {
	ProductID  string
	Adjustment int64
	Note       string
	ActorID    int64
}

// StockCardFilter narrows stock card listings.
type StockCardFilter struct {
	ProductID string
	Limit     int
}
