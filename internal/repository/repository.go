// Package repository defines the persistence port for user records. The
// refresh pipeline and HTTP surface depend on this interface only; the
// Postgres implementation backs production and the memory implementation
// backs tests.
package repository

import (
	"context"

	"rating-tracker/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update rewrites the mutable profile fields (name, handles).
	Update(ctx context.Context, user *models.User) error
	// List returns all users ordered by total score descending.
	List(ctx context.Context) ([]models.User, error)
	// UpdateSnapshot persists all seven snapshot fields as one statement so
	// readers never observe a half-written snapshot.
	UpdateSnapshot(ctx context.Context, id string, snap models.RatingSnapshot) error
}
