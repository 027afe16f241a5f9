package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// NewsFilter carries query parameters for listing news items.
type NewsFilter struct {
	Category      string
	PublishedOnly bool
	Search        string
	Page          int
	Limit         int
}

// NewsRepository defines persistence operations for news items.
type NewsRepository interface {
	Create(ctx context.Context, n *domain.News) (*domain.News, error)
	FindByID(ctx context.Context, id string) (*domain.News, error)
	List(ctx context.Context, filter NewsFilter) ([]*domain.News, int64, error)
	Update(ctx context.Context, n *domain.News) error
	Delete(ctx context.Context, id string) error
}
