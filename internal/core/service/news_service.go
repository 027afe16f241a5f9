package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// NewsService implements announcement posting and maintenance.
type NewsService struct {
	news   ports.NewsRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewNewsService(news ports.NewsRepository, logger zerolog.Logger) *NewsService {
	return &NewsService{
		news:   news,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Post publishes a news item.
func (s *NewsService) Post(ctx context.Context, input ports.PostNewsInput) (*domain.News, error) {
	if d := authz.HasCapability(input.Author, authz.CapPostNews); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if input.Title == "" || input.Content == "" {
		return nil, domain.NewValidationError("title and content are required")
	}

	now := s.now()
	item := &domain.News{
		Title:       input.Title,
		Content:     input.Content,
		Category:    input.Category,
		Author:      input.Author.ID,
		IsPublished: true,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.news.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("news_id", created.ID).Msg("news posted")
	return created, nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*domain.News, error) {
	return s.news.FindByID(ctx, id)
}

func (s *NewsService) List(ctx context.Context, filter ports.NewsFilter) ([]*domain.News, int64, error) {
	return s.news.List(ctx, filter)
}

// Update edits an item; allowed for its author or the admin tier.
func (s *NewsService) Update(ctx context.Context, id string, title, content, category string, actor *domain.Account) (*domain.News, error) {
	item, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Author != actor.ID && !actor.Role.IsAdminTier() {
		return nil, fmt.Errorf("%w: only the author or an admin may edit this item", domain.ErrPolicyDenied)
	}

	if title != "" {
		item.Title = title
	}
	if content != "" {
		item.Content = content
	}
	if category != "" {
		item.Category = category
	}
	item.UpdatedAt = s.now()

	if err := s.news.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item; allowed for its author or the admin tier.
func (s *NewsService) Delete(ctx context.Context, id string, actor *domain.Account) error {
	item, err := s.news.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Author != actor.ID && !actor.Role.IsAdminTier() {
		return fmt.Errorf("%w: only the author or an admin may delete this item", domain.ErrPolicyDenied)
	}
	return s.news.Delete(ctx, id)
}
