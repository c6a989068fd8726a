/**
 * @description
 * Pure, stateless filtering and ordering over the market catalog.
 * Idempotent by construction: the same filter over an unchanged catalog
 * yields identical ordering, with market id as the stable tiebreak.
 *
 * @dependencies
 * - backend/internal/models
 */

package catalog

import (
	"sort"
	"strings"

	"github.com/blockcast-project/backend/internal/models"
)

// Filter narrows and orders the catalog. Zero-value fields are ignored.
type Filter struct {
	Category   string
	Country    string
	Confidence models.ConfidenceLevel
	Status     models.MarketStatus
	// Query is free-text matched case-insensitively over claim, category,
	// and source.
	Query string
}

// Apply returns the markets satisfying every set predicate, ordered
// trending-first, then by total pool descending, then by id ascending.
// The input slice is not modified.
func Apply(markets []models.Market, f Filter) []models.Market {
	out := make([]models.Market, 0, len(markets))
	for _, m := range markets {
		if f.matches(&m) {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Trending != out[j].Trending {
			return out[i].Trending
		}
		if pi, pj := out[i].TotalPool(), out[j].TotalPool(); pi != pj {
			return pi > pj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f Filter) matches(m *models.Market) bool {
	if f.Category != "" && !strings.EqualFold(m.Category, f.Category) {
		return false
	}
	if f.Country != "" && !strings.EqualFold(m.Country, f.Country) {
		return false
	}
	if f.Confidence != "" && m.Confidence != f.Confidence {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(m.Claim), q) &&
			!strings.Contains(strings.ToLower(m.Category), q) &&
			!strings.Contains(strings.ToLower(m.Source), q) {
			return false
		}
	}
	return true
}
