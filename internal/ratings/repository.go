package ratings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratehub/ratehub/internal/platform/db"
	"github.com/ratehub/ratehub/internal/shared"
)

// CreateParams carries the fields persisted for a new rating.
type CreateParams struct {
	StoreID int64
	UserID  int64
	Score   int
	Comment string
}

// UpdateParams carries mutable rating fields.
type UpdateParams struct {
	Score   *int
	Comment *string
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const ratingColumns = `r.id, r.store_id, r.user_id, r.score, r.comment, r.created_at, r.updated_at`

// List returns one page of ratings with user and store names joined in.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Rating, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM ratings`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+ratingColumns+`, u.name, s.name
		 FROM ratings r
		 JOIN users u ON u.id = r.user_id
		 JOIN stores s ON s.id = r.store_id
		 ORDER BY r.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Rating
	for rows.Next() {
		var rating Rating
		if err := rows.Scan(&rating.ID, &rating.StoreID, &rating.UserID, &rating.Score, &rating.Comment,
			&rating.CreatedAt, &rating.UpdatedAt, &rating.UserName, &rating.StoreName); err != nil {
			return nil, 0, err
		}
		list = append(list, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get fetches a rating by ID with names joined in.
func (r *Repository) Get(ctx context.Context, id int64) (*Rating, error) {
	var rating Rating
	err := r.pool.QueryRow(ctx,
		`SELECT `+ratingColumns+`, u.name, s.name
		 FROM ratings r
		 JOIN users u ON u.id = r.user_id
		 JOIN stores s ON s.id = r.store_id
		 WHERE r.id = $1`, id).
		Scan(&rating.ID, &rating.StoreID, &rating.UserID, &rating.Score, &rating.Comment,
			&rating.CreatedAt, &rating.UpdatedAt, &rating.UserName, &rating.StoreName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// Create inserts a new rating after verifying the target store exists, both
// inside one transaction so the store cannot vanish between check and insert.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Rating, error) {
	var rating Rating
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, params.StoreID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return tx.QueryRow(ctx,
			`INSERT INTO ratings (store_id, user_id, score, comment)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, store_id, user_id, score, comment, created_at, updated_at`,
			params.StoreID, params.UserID, params.Score, params.Comment).
			Scan(&rating.ID, &rating.StoreID, &rating.UserID, &rating.Score, &rating.Comment,
				&rating.CreatedAt, &rating.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Update applies the given changes and returns the updated record.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) (*Rating, error) {
	var rating Rating
	err := r.pool.QueryRow(ctx,
		`UPDATE ratings SET
			score = COALESCE($2, score),
			comment = COALESCE($3, comment),
			updated_at = now()
		 WHERE id = $1
		 RETURNING id, store_id, user_id, score, comment, created_at, updated_at`,
		id, params.Score, params.Comment).
		Scan(&rating.ID, &rating.StoreID, &rating.UserID, &rating.Score, &rating.Comment,
			&rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// Delete removes a rating by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
