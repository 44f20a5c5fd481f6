package products

import (
	"strings"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
)

func validateCreate(in *CreateInput) error {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.ID == "" || in.Name == "" || in.Unit == "" {
		return shared.NewError(shared.ErrValidation, "id, name, unit and price are required")
	}
	if in.Price < 0 {
		return shared.NewError(shared.ErrValidation, "price must not be negative")
	}
	if in.StockQuantity < 0 {
		return shared.NewError(shared.ErrValidation, "stock_quantity must not be negative")
	}
	return nil
}

func applyUpdate(p *domain.Product, in UpdateInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return shared.NewError(shared.ErrValidation, "name must not be empty")
		}
		p.Name = name
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			return shared.NewError(shared.ErrValidation, "unit must not be empty")
		}
		p.Unit = unit
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return shared.NewError(shared.ErrValidation, "price must not be negative")
		}
		p.Price = *in.Price
	}
	return nil
}
