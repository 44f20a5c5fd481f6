package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/JINWOOK1234/pos-project/internal/domain"
)

// --- Users ---

const userColumns = `id, username, password_hash, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, mapError(err)
}

func (q *queries) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (q *queries) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, COALESCE($3, NOW()))
		RETURNING id`, user.Username, user.PasswordHash, nullTime(user.CreatedAt)).Scan(&id)
	return id, mapError(err)
}

// --- Products ---

const productColumns = `id, name, unit, price, stock_quantity`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.Price, &p.StockQuantity)
	return p, mapError(err)
}

func (q *queries) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name, id`, search)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapError(rows.Err())
}

func (q *queries) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (q *queries) GetProductForUpdate(ctx context.Context, id string) (domain.Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

func (q *queries) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO products (id, name, unit, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5)`, p.ID, p.Name, p.Unit, p.Price, p.StockQuantity)
	return mapError(err)
}

func (q *queries) UpdateProduct(ctx context.Context, p domain.Product) error {
	return affectedOne(q.db.Exec(ctx, `
		UPDATE products SET name = $2, unit = $3, price = $4
		WHERE id = $1`, p.ID, p.Name, p.Unit, p.Price))
}

func (q *queries) SetProductStock(ctx context.Context, id string, quantity int64) error {
	return affectedOne(q.db.Exec(ctx, `UPDATE products SET stock_quantity = $2 WHERE id = $1`, id, quantity))
}

func (q *queries) DeleteProduct(ctx context.Context, id string) error {
	return affectedOne(q.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id))
}

func (q *queries) InsertStockMovement(ctx context.Context, m domain.StockMovement) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO stock_movements (product_id, delta, balance_after, ref_module, ref_id, user_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING id`,
		m.ProductID, m.Delta, m.BalanceAfter, string(m.RefModule),
		nullInt(m.RefID), nullInt(m.UserID), m.Note, nullTime(m.CreatedAt),
	).Scan(&id)
	return id, mapError(err)
}

func (q *queries) ListStockMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, product_id, delta, balance_after, ref_module,
		       COALESCE(ref_id, 0), COALESCE(user_id, 0), note, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT $2`, productID, limitArg(limit))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var out []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var ref string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.BalanceAfter, &ref, &m.RefID, &m.UserID, &m.Note, &m.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		m.RefModule = domain.RefModule(ref)
		out = append(out, m)
	}
	return out, mapError(rows.Err())
}
