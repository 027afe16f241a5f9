package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// PostNewsInput carries a new announcement.
type PostNewsInput struct {
	Title       string
	Content     string
	Category    string
	Attachments []domain.NewsAttachment
	Author      *domain.Account
}

// NewsService defines use-case operations for news items.
type NewsService interface {
	Post(ctx context.Context, input PostNewsInput) (*domain.News, error)
	Get(ctx context.Context, id string) (*domain.News, error)
	List(ctx context.Context, filter NewsFilter) ([]*domain.News, int64, error)
	Update(ctx context.Context, id string, title, content, category string, actor *domain.Account) (*domain.News, error)
	Delete(ctx context.Context, id string, actor *domain.Account) error
}
