package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

func TestPostNews(t *testing.T) {
	repo := newFakeNews()
	svc := NewNewsService(repo, zerolog.Nop())
	president := &domain.Account{ID: "p1", Role: domain.RolePresidentAdmin}

	created, err := svc.Post(context.Background(), ports.PostNewsInput{
		Title:    "Election schedule announced",
		Content:  "Voting opens next Monday.",
		Category: "elections",
		Author:   president,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !created.IsPublished {
		t.Fatalf("posted items are published")
	}
	if created.Author != "p1" {
		t.Fatalf("author: %s", created.Author)
	}

	student := &domain.Account{ID: "s1", Role: domain.RoleStudent}
	_, err = svc.Post(context.Background(), ports.PostNewsInput{Title: "x", Content: "y", Author: student})
	if !errors.Is(err, domain.ErrPolicyDenied) {
		t.Fatalf("students cannot post news, got %v", err)
	}
}

func TestUpdateNews_AuthorOrAdmin(t *testing.T) {
	repo := newFakeNews(&domain.News{ID: "news1", Title: "Old", Content: "c", Author: "p1", IsPublished: true})
	svc := NewNewsService(repo, zerolog.Nop())

	author := &domain.Account{ID: "p1", Role: domain.RolePresidentAdmin}
	updated, err := svc.Update(context.Background(), "news1", "New title", "", "", author)
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Title != "New title" {
		t.Fatalf("title not updated")
	}

	admin := &domain.Account{ID: "a1", Role: domain.RoleAdmin}
	if _, err := svc.Update(context.Background(), "news1", "Admin edit", "", "", admin); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	other := &domain.Account{ID: "p2", Role: domain.RolePresidentAdmin}
	if _, err := svc.Update(context.Background(), "news1", "Hijack", "", "", other); !errors.Is(err, domain.ErrPolicyDenied) {
		t.Fatalf("non-author non-admin must be denied, got %v", err)
	}
}

func TestDeleteNews(t *testing.T) {
	repo := newFakeNews(&domain.News{ID: "news1", Title: "t", Content: "c", Author: "p1"})
	svc := NewNewsService(repo, zerolog.Nop())

	other := &domain.Account{ID: "p2", Role: domain.RolePresidentAdmin}
	if err := svc.Delete(context.Background(), "news1", other); !errors.Is(err, domain.ErrPolicyDenied) {
		t.Fatalf("non-author delete should be denied, got %v", err)
	}

	author := &domain.Account{ID: "p1", Role: domain.RolePresidentAdmin}
	if err := svc.Delete(context.Background(), "news1", author); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), "news1"); !errors.Is(err, domain.ErrNewsNotFound) {
		t.Fatalf("item should be gone")
	}
}
