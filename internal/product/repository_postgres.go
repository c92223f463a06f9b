package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, name, description, price, stock, category, discount, image, images, is_favorite, reviews,
    to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'), to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
		&p.Discount, &p.Image, pq.Array(&p.Images), &p.IsFavorite, &p.Reviews,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(`INSERT INTO products (name, description, price, stock, category, discount, image, images, is_favorite, reviews)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'), to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.Discount,
		p.Image, pq.Array(p.Images), p.IsFavorite, p.Reviews).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	row := r.db.QueryRow(`UPDATE products SET
            name = $2, description = $3, price = $4, stock = $5, category = $6,
            discount = $7, image = $8, images = $9, is_favorite = $10, reviews = $11,
            updated_at = now()
        WHERE id = $1
        RETURNING `+productColumns,
		id, p.Name, p.Description, p.Price, p.Stock, p.Category,
		p.Discount, p.Image, pq.Array(p.Images), p.IsFavorite, p.Reviews)

	updated, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock runs the whole adjustment in one guarded UPDATE so two
// concurrent order confirmations never lose each other's decrement.
func (r *PostgresRepository) AdjustStock(id int, delta int) (Product, error) {
	row := r.db.QueryRow(`UPDATE products SET stock = stock + $2, updated_at = now()
        WHERE id = $1 AND stock + $2 >= 0
        RETURNING `+productColumns, id, delta)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		// distinguish a missing product from a stock underflow
		var exists bool
		if err2 := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err2 != nil {
			return Product{}, err2
		}
		if !exists {
			return Product{}, ErrNotFound
		}
		return Product{}, ErrInsufficientStock
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}
