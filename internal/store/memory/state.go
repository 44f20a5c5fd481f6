package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

type state struct {
	seq           map[string]int64
	users         map[int64]domain.User
	products      map[string]domain.Product
	movements     []domain.StockMovement
	customers     map[int64]domain.Customer
	suppliers     map[int64]domain.Supplier
	orders        map[int64]domain.Order
	orderItems    []domain.OrderItem
	purchases     map[int64]domain.PurchaseOrder
	purchaseItems []domain.PurchaseOrderItem
	payments      []domain.Payment
}

func newState() *state {
	return &state{
		seq:       make(map[string]int64),
		users:     make(map[int64]domain.User),
		products:  make(map[string]domain.Product),
		customers: make(map[int64]domain.Customer),
		suppliers: make(map[int64]domain.Supplier),
		orders:    make(map[int64]domain.Order),
		purchases: make(map[int64]domain.PurchaseOrder),
	}
}

// clone copies every table. Pointer fields on stored rows are never mutated in place.
func (s *state) clone() *state {
	return &state{
		seq:           maps.Clone(s.seq),
		users:         maps.Clone(s.users),
		products:      maps.Clone(s.products),
		movements:     slices.Clone(s.movements),
		customers:     maps.Clone(s.customers),
		suppliers:     maps.Clone(s.suppliers),
		orders:        maps.Clone(s.orders),
		orderItems:    slices.Clone(s.orderItems),
		purchases:     maps.Clone(s.purchases),
		purchaseItems: slices.Clone(s.purchaseItems),
		payments:      slices.Clone(s.payments),
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func matches(name, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

// Users

func (s *state) GetUser(_ context.Context, id int64) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *state) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (s *state) CreateUser(_ context.Context, user domain.User) (int64, error) {
	for _, u := range s.users {
		if u.Username == user.Username {
			return 0, store.ErrDuplicate
		}
	}
	user.ID = s.next("users")
	s.users[user.ID] = user
	return user.ID, nil
}

// Products

func (s *state) ListProducts(_ context.Context, search string) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if matches(p.Name, search) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *state) GetProduct(_ context.Context, id string) (domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (s *state) GetProductForUpdate(ctx context.Context, id string) (domain.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *state) CreateProduct(_ context.Context, product domain.Product) error {
	if _, ok := s.products[product.ID]; ok {
		return store.ErrDuplicate
	}
	if product.StockQuantity < 0 || product.Price < 0 {
		return store.ErrConstraint
	}
	s.products[product.ID] = product
	return nil
}

func (s *state) UpdateProduct(_ context.Context, product domain.Product) error {
	current, ok := s.products[product.ID]
	if !ok {
		return store.ErrNotFound
	}
	if product.Price < 0 {
		return store.ErrConstraint
	}
	current.Name = product.Name
	current.Unit = product.Unit
	current.Price = product.Price
	s.products[product.ID] = current
	return nil
}

func (s *state) SetProductStock(_ context.Context, id string, quantity int64) error {
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if quantity < 0 {
		return store.ErrConstraint
	}
	p.StockQuantity = quantity
	s.products[id] = p
	return nil
}

func (s *state) DeleteProduct(_ context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	for _, item := range s.orderItems {
		if item.ProductID == id {
			return store.ErrReferenced
		}
	}
	for _, item := range s.purchaseItems {
		if item.ProductID == id {
			return store.ErrReferenced
		}
	}
	delete(s.products, id)
	s.movements = slices.DeleteFunc(s.movements, func(m domain.StockMovement) bool {
		return m.ProductID == id
	})
	return nil
}

func (s *state) InsertStockMovement(_ context.Context, movement domain.StockMovement) (int64, error) {
	if _, ok := s.products[movement.ProductID]; !ok {
		return 0, store.ErrReferenced
	}
	movement.ID = s.next("stock_movements")
	s.movements = append(s.movements, movement)
	return movement.ID, nil
}

func (s *state) ListStockMovements(_ context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ProductID != productID {
			continue
		}
		out = append(out, s.movements[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Customers

func (s *state) ListCustomers(_ context.Context, userID int64, search string) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.customers {
		if c.UserID == userID && matches(c.Name, search) {
			out = append(out, c)
		}
	}
	sortCustomers(out)
	return out, nil
}

func (s *state) ListCustomersWithBalance(_ context.Context, userID int64) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.customers {
		if c.UserID == userID && c.ReceivableBalance > 0 {
			out = append(out, c)
		}
	}
	sortCustomers(out)
	return out, nil
}

func sortCustomers(cs []domain.Customer) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name == cs[j].Name {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].Name < cs[j].Name
	})
}

func (s *state) GetCustomer(_ context.Context, userID, id int64) (domain.Customer, error) {
	c, ok := s.customers[id]
	if !ok || c.UserID != userID {
		return domain.Customer{}, store.ErrNotFound
	}
	return c, nil
}

func (s *state) GetCustomerForUpdate(ctx context.Context, userID, id int64) (domain.Customer, error) {
	return s.GetCustomer(ctx, userID, id)
}

func (s *state) CreateCustomer(_ context.Context, customer domain.Customer) (int64, error) {
	if _, ok := s.users[customer.UserID]; !ok {
		return 0, store.ErrReferenced
	}
	customer.ID = s.next("customers")
	s.customers[customer.ID] = customer
	return customer.ID, nil
}

func (s *state) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	current, err := s.GetCustomer(ctx, customer.UserID, customer.ID)
	if err != nil {
		return err
	}
	current.Name = customer.Name
	current.PhoneNumber = customer.PhoneNumber
	current.Address = customer.Address
	s.customers[current.ID] = current
	return nil
}

func (s *state) SetCustomerBalance(ctx context.Context, userID, id, balance int64) error {
	current, err := s.GetCustomer(ctx, userID, id)
	if err != nil {
		return err
	}
	current.ReceivableBalance = balance
	s.customers[id] = current
	return nil
}

func (s *state) DeleteCustomer(ctx context.Context, userID, id int64) error {
	if _, err := s.GetCustomer(ctx, userID, id); err != nil {
		return err
	}
	if n, _ := s.CountCustomerDependents(ctx, userID, id); n > 0 {
		return store.ErrReferenced
	}
	delete(s.customers, id)
	return nil
}

func (s *state) CountCustomerDependents(_ context.Context, userID, id int64) (int64, error) {
	var n int64
	for _, o := range s.orders {
		if o.UserID == userID && o.CustomerID != nil && *o.CustomerID == id {
			n++
		}
	}
	for _, p := range s.payments {
		if p.UserID == userID && p.CustomerID == id {
			n++
		}
	}
	return n, nil
}

// Suppliers

func (s *state) ListSuppliers(_ context.Context, userID int64) ([]domain.Supplier, error) {
	var out []domain.Supplier
	for _, sp := range s.suppliers {
		if sp.UserID == userID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *state) GetSupplier(_ context.Context, userID, id int64) (domain.Supplier, error) {
	sp, ok := s.suppliers[id]
	if !ok || sp.UserID != userID {
		return domain.Supplier{}, store.ErrNotFound
	}
	return sp, nil
}

func (s *state) supplierNameTaken(userID, exceptID int64, name string) bool {
	for _, sp := range s.suppliers {
		if sp.UserID == userID && sp.ID != exceptID && sp.Name == name {
			return true
		}
	}
	return false
}

func (s *state) CreateSupplier(_ context.Context, supplier domain.Supplier) (int64, error) {
	if s.supplierNameTaken(supplier.UserID, 0, supplier.Name) {
		return 0, store.ErrDuplicate
	}
	supplier.ID = s.next("suppliers")
	s.suppliers[supplier.ID] = supplier
	return supplier.ID, nil
}

func (s *state) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	current, err := s.GetSupplier(ctx, supplier.UserID, supplier.ID)
	if err != nil {
		return err
	}
	if s.supplierNameTaken(supplier.UserID, supplier.ID, supplier.Name) {
		return store.ErrDuplicate
	}
	current.Name = supplier.Name
	current.ContactPerson = supplier.ContactPerson
	current.PhoneNumber = supplier.PhoneNumber
	s.suppliers[current.ID] = current
	return nil
}

func (s *state) DeleteSupplier(ctx context.Context, userID, id int64) error {
	if _, err := s.GetSupplier(ctx, userID, id); err != nil {
		return err
	}
	if n, _ := s.CountSupplierPurchases(ctx, userID, id); n > 0 {
		return store.ErrReferenced
	}
	delete(s.suppliers, id)
	return nil
}

func (s *state) CountSupplierPurchases(_ context.Context, userID, id int64) (int64, error) {
	var n int64
	for _, po := range s.purchases {
		if po.UserID == userID && po.SupplierID != nil && *po.SupplierID == id {
			n++
		}
	}
	return n, nil
}

// Orders

func (s *state) withCustomerName(o domain.Order) domain.Order {
	if o.CustomerID != nil {
		if c, ok := s.customers[*o.CustomerID]; ok {
			o.CustomerName = c.Name
		}
	}
	return o
}

func (s *state) GetOrder(_ context.Context, userID, id int64) (domain.Order, error) {
	o, ok := s.orders[id]
	if !ok || o.UserID != userID {
		return domain.Order{}, store.ErrNotFound
	}
	return s.withCustomerName(o), nil
}

func (s *state) GetOrderForUpdate(ctx context.Context, userID, id int64) (domain.Order, error) {
	return s.GetOrder(ctx, userID, id)
}

func (s *state) ListOrders(_ context.Context, userID int64, filter store.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && o.OrderDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !o.OrderDate.Before(filter.To) {
			continue
		}
		out = append(out, s.withCustomerName(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *state) ListOrderItems(_ context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	for _, item := range s.orderItems {
		if slices.Contains(orderIDs, item.OrderID) {
			item.ProductName = s.products[item.ProductID].Name
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *state) InsertOrder(_ context.Context, order domain.Order) (int64, error) {
	if order.CustomerID != nil {
		if _, ok := s.customers[*order.CustomerID]; !ok {
			return 0, store.ErrReferenced
		}
	}
	order.ID = s.next("orders")
	order.Items = nil
	order.CustomerName = ""
	s.orders[order.ID] = order
	return order.ID, nil
}

func (s *state) InsertOrderItem(_ context.Context, item domain.OrderItem) (int64, error) {
	if _, ok := s.orders[item.OrderID]; !ok {
		return 0, store.ErrReferenced
	}
	if _, ok := s.products[item.ProductID]; !ok {
		return 0, store.ErrReferenced
	}
	if item.Quantity <= 0 {
		return 0, store.ErrConstraint
	}
	item.ID = s.next("order_items")
	item.ProductName = ""
	s.orderItems = append(s.orderItems, item)
	return item.ID, nil
}

func (s *state) UpdateOrderStatus(ctx context.Context, userID, id int64, status domain.OrderStatus) error {
	o, ok := s.orders[id]
	if !ok || o.UserID != userID {
		return store.ErrNotFound
	}
	o.Status = status
	s.orders[id] = o
	return nil
}

func (s *state) SumCompletedOrders(_ context.Context, userID int64, from, to time.Time) (int64, error) {
	var total int64
	for _, o := range s.orders {
		if o.UserID != userID || o.Status != domain.OrderCompleted {
			continue
		}
		if o.OrderDate.Before(from) || !o.OrderDate.Before(to) {
			continue
		}
		total += o.TotalAmount
	}
	return total, nil
}

func (s *state) ListUsersWithOrdersSince(_ context.Context, since time.Time) ([]int64, error) {
	seen := make(map[int64]struct{})
	for _, o := range s.orders {
		if o.Status == domain.OrderCompleted && !o.OrderDate.Before(since) {
			seen[o.UserID] = struct{}{}
		}
	}
	out := slices.Collect(maps.Keys(seen))
	slices.Sort(out)
	return out, nil
}

// Purchases

func (s *state) withSupplierName(po domain.PurchaseOrder) domain.PurchaseOrder {
	if po.SupplierID != nil {
		if sp, ok := s.suppliers[*po.SupplierID]; ok {
			po.SupplierName = sp.Name
		}
	}
	return po
}

func (s *state) GetPurchaseOrder(_ context.Context, userID, id int64) (domain.PurchaseOrder, error) {
	po, ok := s.purchases[id]
	if !ok || po.UserID != userID {
		return domain.PurchaseOrder{}, store.ErrNotFound
	}
	return s.withSupplierName(po), nil
}

func (s *state) ListPurchaseOrders(_ context.Context, userID int64) ([]domain.PurchaseOrder, error) {
	var out []domain.PurchaseOrder
	for _, po := range s.purchases {
		if po.UserID == userID {
			out = append(out, s.withSupplierName(po))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].PurchaseDate.After(out[j].PurchaseDate)
	})
	return out, nil
}

func (s *state) ListPurchaseOrderItems(_ context.Context, purchaseIDs []int64) ([]domain.PurchaseOrderItem, error) {
	var out []domain.PurchaseOrderItem
	for _, item := range s.purchaseItems {
		if slices.Contains(purchaseIDs, item.PurchaseOrderID) {
			item.ProductName = s.products[item.ProductID].Name
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *state) InsertPurchaseOrder(_ context.Context, purchase domain.PurchaseOrder) (int64, error) {
	if purchase.SupplierID != nil {
		if _, ok := s.suppliers[*purchase.SupplierID]; !ok {
			return 0, store.ErrReferenced
		}
	}
	purchase.ID = s.next("purchase_orders")
	purchase.Items = nil
	purchase.SupplierName = ""
	s.purchases[purchase.ID] = purchase
	return purchase.ID, nil
}

func (s *state) InsertPurchaseOrderItem(_ context.Context, item domain.PurchaseOrderItem) (int64, error) {
	if _, ok := s.purchases[item.PurchaseOrderID]; !ok {
		return 0, store.ErrReferenced
	}
	if _, ok := s.products[item.ProductID]; !ok {
		return 0, store.ErrReferenced
	}
	if item.Quantity <= 0 {
		return 0, store.ErrConstraint
	}
	item.ID = s.next("purchase_order_items")
	item.ProductName = ""
	s.purchaseItems = append(s.purchaseItems, item)
	return item.ID, nil
}

// Payments

func (s *state) InsertPayment(_ context.Context, payment domain.Payment) (int64, error) {
	if _, ok := s.customers[payment.CustomerID]; !ok {
		return 0, store.ErrReferenced
	}
	payment.ID = s.next("payment_transactions")
	s.payments = append(s.payments, payment)
	return payment.ID, nil
}

func (s *state) ListPayments(_ context.Context, userID, customerID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range s.payments {
		if p.UserID == userID && p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return out, nil
}

var _ store.Tx = (*state)(nil)
