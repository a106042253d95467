package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roi-report/internal/core/domain"
)

// AppRepository implements port.AppRepository using pgxpool for PostgreSQL.
type AppRepository struct {
	pool *pgxpool.Pool
}

// NewAppRepository returns a new repository instance.
func NewAppRepository(pool *pgxpool.Pool) *AppRepository {
	return &AppRepository{pool: pool}
}

// FindByName resolves an app by exact name. Returns (nil, nil) when absent.
func (r *AppRepository) FindByName(ctx context.Context, name string) (*domain.App, error) {
	var app domain.App
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM apps WHERE name = $1`, name).
		Scan(&app.ID, &app.Name, &app.CreatedAt, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new app. A unique-constraint violation on the name is
// returned to the caller, which re-resolves by name (concurrent imports of
// the same app race here by design).
func (r *AppRepository) Create(ctx context.Context, name string) (*domain.App, error) {
	app := domain.App{ID: uuid.New(), Name: name}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO apps (id, name, created_at, updated_at)
		 VALUES ($1, $2, now(), now())
		 RETURNING created_at, updated_at`, app.ID, app.Name).
		Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
