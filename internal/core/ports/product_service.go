package ports

import (
	"context"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

// ProductInput carries the mutable product fields from the API layer.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int64
}

// ProductService covers the plain product CRUD surface.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Product, error)
}
