package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"
)

// PostgresRepository keeps each cart as a jsonb productID -> quantity
// map in the carts table, one row per user.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) load(userID int) (map[int]int, error) {
	var raw []byte
	err := r.db.QueryRow(`SELECT items FROM carts WHERE user_id = $1`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		// lazily create the row on first access
		if _, err := r.db.Exec(`INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
			return nil, err
		}
		return map[int]int{}, nil
	}
	if err != nil {
		return nil, err
	}

	// jsonb object keys are strings
	m := make(map[string]int)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
	}
	items := make(map[int]int, len(m))
	for k, v := range m {
		if pid, err := strconv.Atoi(k); err == nil {
			items[pid] = v
		}
	}
	return items, nil
}

func (r *PostgresRepository) store(userID int, items map[int]int) error {
	m := make(map[string]int, len(items))
	for pid, qty := range items {
		m[strconv.Itoa(pid)] = qty
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = now()`,
		userID, raw)
	return err
}

func (r *PostgresRepository) GetItems(userID int) (map[int]int, error) {
	return r.load(userID)
}

func (r *PostgresRepository) AddItem(userID, productID, qty int) (map[int]int, error) {
	items, err := r.load(userID)
	if err != nil {
		return nil, err
	}

	items[productID] += qty
	if items[productID] <= 0 {
		delete(items, productID)
	}
	if err := r.store(userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) AdjustItem(userID, productID, delta int) (map[int]int, error) {
	items, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	if _, ok := items[productID]; !ok {
		return nil, ErrItemNotFound
	}

	items[productID] += delta
	if items[productID] <= 0 {
		delete(items, productID)
	}
	if err := r.store(userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) RemoveItem(userID, productID int) (map[int]int, error) {
	items, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	if _, ok := items[productID]; !ok {
		return nil, ErrItemNotFound
	}

	delete(items, productID)
	if err := r.store(userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Clear(userID int) error {
	return r.store(userID, map[int]int{})
}
