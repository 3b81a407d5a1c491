package stores

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratehub/ratehub/internal/shared"
)

// CreateParams carries the fields persisted for a new store.
type CreateParams struct {
	Name        string
	Address     string
	Description string
	OwnerID     int64
}

// UpdateParams carries mutable store fields. Nil pointers leave the stored
// value untouched.
type UpdateParams struct {
	Name        *string
	Address     *string
	Description *string
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const storeColumns = `id, name, address, description, owner_id, created_at, updated_at`

func scanStore(row pgx.Row) (*Store, error) {
	var store Store
	err := row.Scan(&store.ID, &store.Name, &store.Address, &store.Description, &store.OwnerID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// List returns one page of stores plus the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Store, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM stores`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+storeColumns+` FROM stores ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Store
	for rows.Next() {
		var store Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Address, &store.Description, &store.OwnerID, &store.CreatedAt, &store.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, store)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListIDs returns every store ID. Used by the periodic summary refresh.
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM stores ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get fetches a store by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
}

// Create inserts a new store.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Store, error) {
	return scanStore(r.pool.QueryRow(ctx,
		`INSERT INTO stores (name, address, description, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+storeColumns,
		params.Name, params.Address, params.Description, params.OwnerID))
}

// Update applies the given changes and returns the updated record.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) (*Store, error) {
	return scanStore(r.pool.QueryRow(ctx,
		`UPDATE stores SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			description = COALESCE($4, description),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+storeColumns,
		id, params.Name, params.Address, params.Description))
}

// Delete removes a store by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Summary computes the live rating aggregate for one store.
func (r *Repository) Summary(ctx context.Context, storeID int64) (Summary, error) {
	summary := Summary{StoreID: storeID}
	err := r.pool.QueryRow(ctx,
		`SELECT count(*), COALESCE(avg(score), 0) FROM ratings WHERE store_id = $1`, storeID).
		Scan(&summary.Count, &summary.Average)
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// SaveSummary persists a computed aggregate onto the store row.
func (r *Repository) SaveSummary(ctx context.Context, summary Summary) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stores SET rating_count = $2, rating_avg = $3, updated_at = now() WHERE id = $1`,
		summary.StoreID, summary.Count, summary.Average)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
