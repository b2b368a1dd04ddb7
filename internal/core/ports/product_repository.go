package ports

import (
	"context"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

// ProductRepository defines the interface for product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// Update returns domain.ErrProductNotFound when no row was updated.
	Update(ctx context.Context, product *domain.Product) error
	// Delete returns domain.ErrProductNotFound when no row was deleted.
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]domain.Product, error)
}
