package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JINWOOK1234/pos-project/internal/domain"
)

func nullInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// limitArg binds LIMIT NULL, which Postgres treats as no limit, for n <= 0.
func limitArg(n int) *int64 {
	if n <= 0 {
		return nil
	}
	v := int64(n)
	return &v
}

// --- Customers ---

const customerColumns = `id, user_id, name, phone_number, address, receivable_balance`

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.PhoneNumber, &c.Address, &c.ReceivableBalance)
	return c, mapError(err)
}

func collectCustomers(rows pgx.Rows, err error) ([]domain.Customer, error) {
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapError(rows.Err())
}

func (q *queries) ListCustomers(ctx context.Context, userID int64, search string) ([]domain.Customer, error) {
	return collectCustomers(q.db.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE user_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name, id`, userID, search))
}

func (q *queries) ListCustomersWithBalance(ctx context.Context, userID int64) ([]domain.Customer, error) {
	return collectCustomers(q.db.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE user_id = $1 AND receivable_balance > 0
		ORDER BY name, id`, userID))
}

func (q *queries) GetCustomer(ctx context.Context, userID, id int64) (domain.Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 AND user_id = $2`, id, userID))
}

func (q *queries) GetCustomerForUpdate(ctx context.Context, userID, id int64) (domain.Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID))
}

func (q *queries) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO customers (user_id, name, phone_number, address, receivable_balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, c.UserID, c.Name, c.PhoneNumber, c.Address, c.ReceivableBalance).Scan(&id)
	return id, mapError(err)
}

func (q *queries) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	return affectedOne(q.db.Exec(ctx, `
		UPDATE customers SET name = $3, phone_number = $4, address = $5
		WHERE id = $1 AND user_id = $2`, c.ID, c.UserID, c.Name, c.PhoneNumber, c.Address))
}

func (q *queries) SetCustomerBalance(ctx context.Context, userID, id, balance int64) error {
	return affectedOne(q.db.Exec(ctx, `
		UPDATE customers SET receivable_balance = $3
		WHERE id = $1 AND user_id = $2`, id, userID, balance))
}

func (q *queries) DeleteCustomer(ctx context.Context, userID, id int64) error {
	return affectedOne(q.db.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, userID))
}

func (q *queries) CountCustomerDependents(ctx context.Context, userID, id int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM orders WHERE customer_id = $1 AND user_id = $2)
		     + (SELECT COUNT(*) FROM payment_transactions WHERE customer_id = $1 AND user_id = $2)`,
		id, userID).Scan(&n)
	return n, mapError(err)
}

// --- Suppliers ---

const supplierColumns = `id, user_id, name, contact_person, phone_number`

func scanSupplier(row pgx.Row) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.ContactPerson, &s.PhoneNumber)
	return s, mapError(err)
}

func (q *queries) ListSuppliers(ctx context.Context, userID int64) ([]domain.Supplier, error) {
	rows, err := q.db.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, mapError(rows.Err())
}

func (q *queries) GetSupplier(ctx context.Context, userID, id int64) (domain.Supplier, error) {
	return scanSupplier(q.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 AND user_id = $2`, id, userID))
}

func (q *queries) CreateSupplier(ctx context.Context, s domain.Supplier) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO suppliers (user_id, name, contact_person, phone_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, s.UserID, s.Name, s.ContactPerson, s.PhoneNumber).Scan(&id)
	return id, mapError(err)
}

func (q *queries) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	return affectedOne(q.db.Exec(ctx, `
		UPDATE suppliers SET name = $3, contact_person = $4, phone_number = $5
		WHERE id = $1 AND user_id = $2`, s.ID, s.UserID, s.Name, s.ContactPerson, s.PhoneNumber))
}

func (q *queries) DeleteSupplier(ctx context.Context, userID, id int64) error {
	return affectedOne(q.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1 AND user_id = $2`, id, userID))
}

func (q *queries) CountSupplierPurchases(ctx context.Context, userID, id int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders WHERE supplier_id = $1 AND user_id = $2`, id, userID).Scan(&n)
	return n, mapError(err)
}

// --- Payments ---

func (q *queries) InsertPayment(ctx context.Context, p domain.Payment) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO payment_transactions (user_id, customer_id, transaction_date, amount, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, p.UserID, p.CustomerID, p.TransactionDate, p.Amount, string(p.PaymentMethod), p.Notes).Scan(&id)
	return id, mapError(err)
}

func (q *queries) ListPayments(ctx context.Context, userID, customerID int64) ([]domain.Payment, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, user_id, customer_id, transaction_date, amount, payment_method, notes
		FROM payment_transactions
		WHERE user_id = $1 AND customer_id = $2
		ORDER BY transaction_date DESC, id DESC`, userID, customerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var method string
		if err := rows.Scan(&p.ID, &p.UserID, &p.CustomerID, &p.TransactionDate, &p.Amount, &method, &p.Notes); err != nil {
			return nil, mapError(err)
		}
		p.PaymentMethod = domain.PaymentMethod(method)
		out = append(out, p)
	}
	return out, mapError(rows.Err())
}
