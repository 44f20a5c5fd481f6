package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// --- Orders ---

const orderSelect = `
	SELECT o.id, o.user_id, o.order_date, o.total_amount, o.payment_method, o.status,
	       o.customer_id, COALESCE(c.name, '')
	FROM orders o
	LEFT JOIN customers c ON c.id = o.customer_id`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var method, status string
	err := row.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &method, &status, &o.CustomerID, &o.CustomerName)
	o.PaymentMethod = domain.PaymentMethod(method)
	o.Status = domain.OrderStatus(status)
	return o, mapError(err)
}

func (q *queries) GetOrder(ctx context.Context, userID, id int64) (domain.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1 AND o.user_id = $2`, id, userID))
}

func (q *queries) GetOrderForUpdate(ctx context.Context, userID, id int64) (domain.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1 AND o.user_id = $2 FOR UPDATE OF o`, id, userID))
}

func (q *queries) ListOrders(ctx context.Context, userID int64, filter store.OrderFilter) ([]domain.Order, error) {
	rows, err := q.db.Query(ctx, orderSelect+`
		WHERE o.user_id = $1
		  AND ($2::timestamptz IS NULL OR o.order_date >= $2)
		  AND ($3::timestamptz IS NULL OR o.order_date < $3)
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT $4`, userID, nullTime(filter.From), nullTime(filter.To), limitArg(filter.Limit))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, mapError(rows.Err())
}

func (q *queries) ListOrderItems(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	rows, err := q.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_per_unit
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`, orderIDs)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PricePerUnit); err != nil {
			return nil, mapError(err)
		}
		out = append(out, it)
	}
	return out, mapError(rows.Err())
}

func (q *queries) InsertOrder(ctx context.Context, o domain.Order) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_date, total_amount, payment_method, status, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, o.UserID, o.OrderDate, o.TotalAmount, string(o.PaymentMethod), string(o.Status), o.CustomerID).Scan(&id)
	return id, mapError(err)
}

func (q *queries) InsertOrderItem(ctx context.Context, it domain.OrderItem) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, it.OrderID, it.ProductID, it.Quantity, it.PricePerUnit).Scan(&id)
	return id, mapError(err)
}

func (q *queries) UpdateOrderStatus(ctx context.Context, userID, id int64, status domain.OrderStatus) error {
	return affectedOne(q.db.Exec(ctx, `UPDATE orders SET status = $3 WHERE id = $1 AND user_id = $2`, id, userID, string(status)))
}

func (q *queries) SumCompletedOrders(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)::BIGINT
		FROM orders
		WHERE user_id = $1 AND status = 'completed'
		  AND order_date >= $2 AND order_date < $3`, userID, from, to).Scan(&total)
	return total, mapError(err)
}

func (q *queries) ListUsersWithOrdersSince(ctx context.Context, since time.Time) ([]int64, error) {
	rows, err := q.db.Query(ctx, `
		SELECT DISTINCT user_id FROM orders
		WHERE status = 'completed' AND order_date >= $1
		ORDER BY user_id`, since)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		out = append(out, id)
	}
	return out, mapError(rows.Err())
}

// --- Purchase orders ---

const purchaseSelect = `
	SELECT po.id, po.user_id, po.purchase_date, po.supplier_id, COALESCE(s.name, ''), po.total_cost
	FROM purchase_orders po
	LEFT JOIN suppliers s ON s.id = po.supplier_id`

func scanPurchase(row pgx.Row) (domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := row.Scan(&po.ID, &po.UserID, &po.PurchaseDate, &po.SupplierID, &po.SupplierName, &po.TotalCost)
	return po, mapError(err)
}

func (q *queries) GetPurchaseOrder(ctx context.Context, userID, id int64) (domain.PurchaseOrder, error) {
	return scanPurchase(q.db.QueryRow(ctx, purchaseSelect+` WHERE po.id = $1 AND po.user_id = $2`, id, userID))
}

func (q *queries) ListPurchaseOrders(ctx context.Context, userID int64) ([]domain.PurchaseOrder, error) {
	rows, err := q.db.Query(ctx, purchaseSelect+`
		WHERE po.user_id = $1
		ORDER BY po.purchase_date DESC, po.id DESC`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, mapError(rows.Err())
}

func (q *queries) ListPurchaseOrderItems(ctx context.Context, purchaseIDs []int64) ([]domain.PurchaseOrderItem, error) {
	if len(purchaseIDs) == 0 {
		return nil, nil
	}
	rows, err := q.db.Query(ctx, `
		SELECT pi.id, pi.purchase_order_id, pi.product_id, p.name, pi.quantity, pi.cost_per_unit
		FROM purchase_order_items pi
		JOIN products p ON p.id = pi.product_id
		WHERE pi.purchase_order_id = ANY($1)
		ORDER BY pi.purchase_order_id, pi.id`, purchaseIDs)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.PurchaseOrderItem
	for rows.Next() {
		var it domain.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.CostPerUnit); err != nil {
			return nil, mapError(err)
		}
		out = append(out, it)
	}
	return out, mapError(rows.Err())
}

func (q *queries) InsertPurchaseOrder(ctx context.Context, po domain.PurchaseOrder) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO purchase_orders (user_id, purchase_date, supplier_id, total_cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, po.UserID, po.PurchaseDate, po.SupplierID, po.TotalCost).Scan(&id)
	return id, mapError(err)
}

func (q *queries) InsertPurchaseOrderItem(ctx context.Context, it domain.PurchaseOrderItem) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO purchase_order_items (purchase_order_id, product_id, quantity, cost_per_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, it.PurchaseOrderID, it.ProductID, it.Quantity, it.CostPerUnit).Scan(&id)
	return id, mapError(err)
}
