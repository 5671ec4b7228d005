package repository

import (
	"context"
	"time"

	"car-finder/internal/database"
)

type FeedbackRepository interface {
	// Insert appends a preference record for a listing. Rows are never
	// updated or deleted by the application.
	Insert(ctx context.Context, carID int64, preference string) error
}

type PostgresFeedbackRepository struct {
	db database.DB
}

func NewPostgresFeedbackRepository(db database.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

func (r *PostgresFeedbackRepository) Insert(ctx context.Context, carID int64, preference string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO feedback (car_id, preference, created_at)
		VALUES ($1, $2, $3)
	`, carID, preference, time.Now().UTC())
	return err
}
