package sale

import (
	"database/sql"
	"encoding/json"
)

// PostgresRepository stores the line snapshots as a jsonb array on the
// sales row; they are denormalized on purpose and never joined back to
// the products table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const saleColumns = `id, user_id, items, total_price, shipping_type, shipping_cost,
    payment_method, shipping_address, status, sale_date, updated_at`

func scanSale(row interface{ Scan(...any) error }) (Sale, error) {
	var s Sale
	var items []byte
	err := row.Scan(&s.ID, &s.UserID, &items, &s.TotalPrice, &s.ShippingType,
		&s.ShippingCost, &s.PaymentMethod, &s.ShippingAddress, &s.Status,
		&s.SaleDate, &s.UpdatedAt)
	if err != nil {
		return Sale{}, err
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(s Sale) (Sale, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return Sale{}, err
	}

	row := r.db.QueryRow(`INSERT INTO sales
            (user_id, items, total_price, shipping_type, shipping_cost, payment_method, shipping_address, status, sale_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING `+saleColumns,
		s.UserID, items, s.TotalPrice, s.ShippingType, s.ShippingCost,
		s.PaymentMethod, s.ShippingAddress, s.Status, s.SaleDate)
	return scanSale(row)
}

func (r *PostgresRepository) GetByID(id int) (Sale, error) {
	s, err := scanSale(r.db.QueryRow(`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return Sale{}, ErrNotFound
	}
	return s, err
}

func (r *PostgresRepository) ListAll() ([]Sale, error) {
	return r.list(`SELECT ` + saleColumns + ` FROM sales ORDER BY id`)
}

func (r *PostgresRepository) ListByUser(userID int) ([]Sale, error) {
	return r.list(`SELECT `+saleColumns+` FROM sales WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresRepository) list(query string, args ...any) ([]Sale, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id int, from, to Status) (Sale, error) {
	row := r.db.QueryRow(`UPDATE sales SET status = $2, updated_at = now()
        WHERE id = $1 AND status = $3
        RETURNING `+saleColumns, id, to, from)

	s, err := scanSale(row)
	if err == sql.ErrNoRows {
		var exists bool
		if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists); err != nil {
			return Sale{}, err
		}
		if !exists {
			return Sale{}, ErrNotFound
		}
		return Sale{}, ErrStaleStatus
	}
	return s, err
}
