package products

type createRequest struct {
	ID            string `json:"id" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=100"`
	Unit          string `json:"unit" validate:"required,max=20"`
	Price         *int64 `json:"price" validate:"required,gte=0,lte=1000000000000"`
	StockQuantity int64  `json:"stock_quantity" validate:"gte=0,lte=1000000000"`
}

type updateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Unit  *string `json:"unit" validate:"omitempty,min=1,max=20"`
	Price *int64  `json:"price" validate:"omitempty,gte=0,lte=1000000000000"`
}

// CreateInput describes a new catalogue entry. StockQuantity is booked as an opening movement.
type CreateInput struct {
	ID            string
	Name          string
	Unit          string
	Price         int64
	StockQuantity int64
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name  *string
	Unit  *string
	Price *int64
}
