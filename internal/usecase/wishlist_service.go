package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// WishlistService manages saved products keyed by link
type WishlistService struct {
	repo domain.WishlistRepository
	now  func() time.Time

	// Serializes load-modify-save cycles
	mu sync.Mutex
}

// NewWishlistService creates a wishlist service backed by repo
func NewWishlistService(repo domain.WishlistRepository) *WishlistService {
	return &WishlistService{repo: repo, now: time.Now}
}

// List returns saved items in insertion order
func (s *WishlistService) List(ctx context.Context) ([]domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items, nil
}

// Add saves a product unless its link is already present.
// Returns the stored item and whether it was newly added.
func (s *WishlistService) Add(ctx context.Context, product domain.Product, source domain.SourceName) (domain.WishlistItem, bool, error) {
	product.Link = strings.TrimSpace(product.Link)
	if product.Link == "" || strings.TrimSpace(product.Name) == "" {
		return domain.WishlistItem{}, false, domain.ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return domain.WishlistItem{}, false, fmt.Errorf("load wishlist: %w", err)
	}

	for _, item := range items {
		if item.Link == product.Link {
			return item, false, nil
		}
	}

	item := domain.WishlistItem{Product: product, Source: source, AddedAt: s.now().UTC()}
	items = append(items, item)
	if err := s.repo.Save(ctx, items); err != nil {
		return domain.WishlistItem{}, false, fmt.Errorf("save wishlist: %w", err)
	}

	log.Printf("[WISHLIST] Added %q (%s)", product.Name, product.Link)
	return item, true, nil
}

// Remove deletes the item with the given link
func (s *WishlistService) Remove(ctx context.Context, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return domain.ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}

	kept := items[:0:0]
	for _, item := range items {
		if item.Link != link {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return domain.ErrWishlistItemNotFound
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}

	log.Printf("[WISHLIST] Removed %s", link)
	return nil
}
