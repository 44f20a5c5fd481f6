// Package domain holds the entities shared by the POS back-office modules.
// Money values are integer minor units.
package domain

import "time"

// PaymentMethod enumerates how an order or payment is settled.
type PaymentMethod string

const (
	// PaymentCash settles immediately in cash.
	PaymentCash PaymentMethod = "cash"
	// PaymentCredit charges the customer's receivable balance.
	PaymentCredit PaymentMethod = "credit"
	// PaymentOther covers card, transfer and similar methods.
	PaymentOther PaymentMethod = "other"
)

// Valid reports whether the method is one of the supported values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentOther:
		return true
	}
	return false
}

// OrderStatus enumerates order lifecycle states. completed -> cancelled is the only transition.
type OrderStatus string

const (
	// OrderCompleted is the initial state of every order.
	OrderCompleted OrderStatus = "completed"
	// OrderCancelled is terminal.
	OrderCancelled OrderStatus = "cancelled"
)

// RefModule tags the origin of a stock movement.
type RefModule string

const (
	RefOrder       RefModule = "ORDER"
	RefOrderCancel RefModule = "ORDER_CANCEL"
	RefPurchase    RefModule = "PURCHASE"
	RefAdjustment  RefModule = "ADJUSTMENT"
)

// User is an account that owns customers, suppliers, orders and purchases.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product is a catalogue entry. StockQuantity never drops below zero.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	Price         int64  `json:"price"`
	StockQuantity int64  `json:"stock_quantity"`
}

// StockMovement is one line of a product's stock card.
type StockMovement struct {
	ID           int64     `json:"id"`
	ProductID    string    `json:"product_id"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balance_after"`
	RefModule    RefModule `json:"ref_module"`
	RefID        int64     `json:"ref_id,omitempty"`
	UserID       int64     `json:"user_id,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Customer buys on cash or credit. ReceivableBalance may go negative after overpayment.
type Customer struct {
	ID                int64  `json:"id"`
	UserID            int64  `json:"-"`
	Name              string `json:"name"`
	PhoneNumber       string `json:"phone_number"`
	Address           string `json:"address"`
	ReceivableBalance int64  `json:"receivable_balance"`
}

// Supplier provides purchased goods. Name is unique per owner.
type Supplier struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"-"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	PhoneNumber   string `json:"phone_number"`
}

// Order is a completed or cancelled sale.
type Order struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"-"`
	OrderDate     time.Time     `json:"order_date"`
	TotalAmount   int64         `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        OrderStatus   `json:"status"`
	CustomerID    *int64        `json:"customer_id"`
	CustomerName  string        `json:"customer_name,omitempty"`
	Items         []OrderItem   `json:"items"`
}

// IsCredit reports whether the order was charged to a customer's balance.
func (o Order) IsCredit() bool {
	return o.PaymentMethod == PaymentCredit && o.CustomerID != nil
}

// OrderItem is one sold line. PricePerUnit is a snapshot taken at sale time.
type OrderItem struct {
	ID           int64  `json:"id"`
	OrderID      int64  `json:"order_id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	Quantity     int64  `json:"quantity"`
	PricePerUnit int64  `json:"price_per_unit"`
}

// PurchaseOrder records goods received from a supplier.
type PurchaseOrder struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"-"`
	PurchaseDate time.Time           `json:"purchase_date"`
	SupplierID   *int64              `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	TotalCost    int64               `json:"total_cost"`
	Items        []PurchaseOrderItem `json:"items,omitempty"`
}

// PurchaseOrderItem is one received line. CostPerUnit is a snapshot.
type PurchaseOrderItem struct {
	ID              int64  `json:"id"`
	PurchaseOrderID int64  `json:"purchase_order_id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name,omitempty"`
	Quantity        int64  `json:"quantity"`
	CostPerUnit     int64  `json:"cost_per_unit"`
}

// Payment is an immutable customer payment against the receivable balance.
type Payment struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"-"`
	CustomerID      int64         `json:"customer_id"`
	TransactionDate time.Time     `json:"transaction_date"`
	Amount          int64         `json:"amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Notes           *string       `json:"notes"`
}
