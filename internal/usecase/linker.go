package usecase

import (
	"log"
	"strings"

	"github.com/shopsense/backend/internal/domain"
)

// LinkConfig holds the thresholds for cross-source product linking
type LinkConfig struct {
	NameRatio          float64 // Minimum ratio of normalized names
	CloseMatchCutoff   float64 // Cutoff for the close-match check on raw names
	MinSharedTokens    int     // Minimum shared normalized-name tokens
	EnableDebugLogging bool
}

// Linker groups listings from different sources that describe the same
// real-world product.
type Linker struct {
	normalizer         *Normalizer
	nameRatio          float64
	closeMatchCutoff   float64
	minSharedTokens    int
	enableDebugLogging bool
}

// NewLinker creates a linker with the given configuration
func NewLinker(normalizer *Normalizer, config LinkConfig) *Linker {
	nameRatio := config.NameRatio
	if nameRatio <= 0 {
		nameRatio = 0.7
	}

	cutoff := config.CloseMatchCutoff
	if cutoff <= 0 {
		cutoff = 0.75
	}

	minShared := config.MinSharedTokens
	if minShared <= 0 {
		minShared = 3
	}

	return &Linker{
		normalizer:         normalizer,
		nameRatio:          nameRatio,
		closeMatchCutoff:   cutoff,
		minSharedTokens:    minShared,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Tag flattens listings into source-then-list order, wrapping each product
// with its source and normalized forms. Products without a name are skipped.
func (l *Linker) Tag(listings []domain.SourceProducts) []domain.TaggedProduct {
	var tagged []domain.TaggedProduct
	for _, sp := range listings {
		for _, p := range sp.Products {
			if strings.TrimSpace(p.Name) == "" {
				continue
			}
			tagged = append(tagged, domain.TaggedProduct{
				Source:          sp.Source,
				Product:         p,
				NormalizedName:  l.normalizer.Normalize(p.Name),
				NormalizedBrand: normalizeBrand(p.Brand),
			})
		}
	}
	return tagged
}

// Link clusters products across sources with a greedy single pass.
//
// Each unconsumed product opens a group and claims every later unconsumed
// product that passes sameProduct against it, at most one per source (the
// first candidate from a source wins). Groups with fewer than two filled
// sources are dropped and their opener is not retried. The result depends on
// input order when similarity is not transitive. O(n^2) in total products.
//
// Every group has a key for each source in listings; absent slots are nil.
func (l *Linker) Link(listings []domain.SourceProducts) (groups []domain.MatchedGroup) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[LINK] Recovered while linking products: %v", r)
			groups = nil
		}
	}()

	tagged := l.Tag(listings)
	used := make([]bool, len(tagged))

	for i, p1 := range tagged {
		if used[i] {
			continue
		}
		used[i] = true

		group := newGroup(listings)
		group[p1.Source] = productRef(p1.Product)

		for j := i + 1; j < len(tagged); j++ {
			p2 := tagged[j]
			if used[j] || group[p2.Source] != nil {
				continue
			}
			if l.sameProduct(p1, p2) {
				group[p2.Source] = productRef(p2.Product)
				used[j] = true
			}
		}

		if group.Filled() >= 2 {
			if l.enableDebugLogging {
				log.Printf("[LINK] Group opened by %s %q: %d sources", p1.Source, p1.Product.Name, group.Filled())
			}
			groups = append(groups, group)
		}
	}

	return groups
}

// sameProduct reports whether two tagged products describe the same item.
// Brands must be equal; then any one of the name signals is enough.
func (l *Linker) sameProduct(p1, p2 domain.TaggedProduct) bool {
	if p1.NormalizedBrand != p2.NormalizedBrand {
		return false
	}

	// Two all-stop-word names both normalize to "" and score 1.0
	score := Ratio(p1.NormalizedName, p2.NormalizedName)
	if l.enableDebugLogging {
		log.Printf("[LINK] %q vs %q: ratio=%.3f", p1.NormalizedName, p2.NormalizedName, score)
	}
	if score >= l.nameRatio {
		return true
	}

	if closeMatch(collapseLower(p1.Product.Name), collapseLower(p2.Product.Name), l.closeMatchCutoff) {
		return true
	}

	shared := sharedTokens(strings.Fields(p1.NormalizedName), strings.Fields(p2.NormalizedName))
	return shared >= l.minSharedTokens
}

// normalizeBrand is the brand gate key: trimmed and lowercased, no stop words removed
func normalizeBrand(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

func newGroup(listings []domain.SourceProducts) domain.MatchedGroup {
	group := make(domain.MatchedGroup, len(listings))
	for _, sp := range listings {
		group[sp.Source] = nil
	}
	return group
}

func productRef(p domain.Product) *domain.Product {
	return &p
}
