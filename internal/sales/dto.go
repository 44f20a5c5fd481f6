package sales

import "github.com/JINWOOK1234/pos-project/internal/domain"

type createOrderItem struct {
	ID       string `json:"id" validate:"required,max=50"`
	Quantity int64  `json:"quantity" validate:"gt=0,lte=1000000000"`
	Price    int64  `json:"price" validate:"gte=0,lte=1000000000000"`
}

type createOrderRequest struct {
	Items         []createOrderItem `json:"items" validate:"required,dive"`
	TotalAmount   *int64            `json:"total_amount" validate:"required,gte=0"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash credit other"`
	CustomerID    *int64            `json:"customer_id" validate:"omitempty,gt=0"`
}

func (r createOrderRequest) input(idempotencyKey string) CreateOrderInput {
	items := make([]ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ItemInput{ProductID: item.ID, Quantity: item.Quantity, Price: item.Price})
	}
	return CreateOrderInput{
		Items:          items,
		TotalAmount:    *r.TotalAmount,
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		CustomerID:     r.CustomerID,
		IdempotencyKey: idempotencyKey,
	}
}
