package usecase

import (
	"github.com/shopsense/backend/internal/domain"
)

// defaultDedupeLimit caps the number of unique listings kept per source
const defaultDedupeLimit = 5

// Deduplicator collapses a source's listings to its semantically unique entries
type Deduplicator struct {
	normalizer *Normalizer
}

// NewDeduplicator creates a deduplicator keyed on normalized names
func NewDeduplicator(normalizer *Normalizer) *Deduplicator {
	return &Deduplicator{normalizer: normalizer}
}

// Dedupe keeps the first product for each distinct normalized name, in
// encounter order, up to limit entries (5 when limit <= 0).
//
// Names that normalize to "" share one key, so every empty or all-stop-word
// name collapses into a single slot.
func (d *Deduplicator) Dedupe(products []domain.Product, limit int) []domain.Product {
	if limit <= 0 {
		limit = defaultDedupeLimit
	}

	seen := make(map[string]struct{}, len(products))
	unique := make([]domain.Product, 0, min(limit, len(products)))

	for _, p := range products {
		if len(unique) >= limit {
			break
		}

		key := d.normalizer.Normalize(p.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}

	return unique
}
