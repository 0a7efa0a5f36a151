package usecase

import (
	"testing"
)

func newTestKeywordMatcher() *KeywordMatcher {
	return NewKeywordMatcher(NewNormalizer(nil), KeywordMatchConfig{})
}

func TestNewKeywordMatcher(t *testing.T) {
	t.Run("uses defaults when zero", func(t *testing.T) {
		m := newTestKeywordMatcher()
		if m.shortKeywordLength != 6 {
			t.Errorf("shortKeywordLength = %d, want 6 (default)", m.shortKeywordLength)
		}
		if m.shortKeywordRatio != 0.4 {
			t.Errorf("shortKeywordRatio = %v, want 0.4 (default)", m.shortKeywordRatio)
		}
		if m.longKeywordRatio != 0.5 {
			t.Errorf("longKeywordRatio = %v, want 0.5 (default)", m.longKeywordRatio)
		}
	})

	t.Run("keeps provided values", func(t *testing.T) {
		m := NewKeywordMatcher(NewNormalizer(nil), KeywordMatchConfig{
			ShortKeywordLength: 4,
			ShortKeywordRatio:  0.3,
			LongKeywordRatio:   0.6,
		})
		if m.shortKeywordLength != 4 || m.shortKeywordRatio != 0.3 || m.longKeywordRatio != 0.6 {
			t.Errorf("config not applied: %+v", m)
		}
	})
}

func TestMatchPercentage(t *testing.T) {
	m := newTestKeywordMatcher()

	tests := []struct {
		name    string
		names   []string
		keyword string
		want    float64
	}{
		{
			name:    "half of the names contain the keyword",
			names:   []string{"Nike Shoes", "Red Bag"},
			keyword: "shoes",
			want:    50.0,
		},
		{
			name:    "empty name list",
			names:   nil,
			keyword: "shoes",
			want:    0.0,
		},
		{
			name:    "blank keyword",
			names:   []string{"Nike Shoes"},
			keyword: "   ",
			want:    0.0,
		},
		{
			name:    "short keyword accepts fuzzy ratio above 0.4",
			names:   []string{"Lakme Kajal", "Lakme Lipstick Matte", "Maybelline Kajal", "Nykaa Eyeliner"},
			keyword: "kajal",
			want:    75.0,
		},
		{
			name:    "long keyword needs ratio strictly above 0.5",
			names:   []string{"Biba Cotton Kurta", "Aurelia Printed Kurta Set", "W Palazzo", "Libas Straight Kurta"},
			keyword: "cotton kurta",
			want:    25.0,
		},
		{
			name:    "rounded to two decimals",
			names:   []string{"Maybelline Fit Me Foundation", "Lakme Foundation", "Nykaa Lipstick"},
			keyword: "fit me foundation",
			want:    66.67,
		},
		{
			name:    "all stop word keyword matches every name",
			names:   []string{"Lakme Eyeliner", "Maybelline Kajal"},
			keyword: "kit",
			want:    100.0,
		},
		{
			name:    "multi word stop word keyword matches every name",
			names:   []string{"anything here", "other", ""},
			keyword: "Combo Set",
			want:    100.0,
		},
		{
			name:    "short keyword raw substring",
			names:   []string{"Kurti for women"},
			keyword: "kurta",
			want:    100.0,
		},
		{
			name:    "keyword is trimmed",
			names:   []string{"Nike Shoes"},
			keyword: "  shoes ",
			want:    100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MatchPercentage(tt.names, tt.keyword); got != tt.want {
				t.Errorf("MatchPercentage(%v, %q) = %v, want %v", tt.names, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestMatchPercentage_Properties(t *testing.T) {
	m := newTestKeywordMatcher()
	names := []string{"Puma Running Shoes", "Puma Sneakers", "Adidas Shoes", "", "Red"}

	for _, keyword := range []string{"running shoes", "shoes", "puma", "xyz", "red"} {
		got := m.MatchPercentage(names, keyword)
		if got < 0 || got > 100 {
			t.Errorf("MatchPercentage(%q) = %v, want within [0,100]", keyword, got)
		}
		if again := m.MatchPercentage(names, keyword); again != got {
			t.Errorf("MatchPercentage(%q) not deterministic: %v then %v", keyword, got, again)
		}
	}

	// A keyword contained in every normalized name scores 100
	if got := m.MatchPercentage([]string{"Puma Shoes", "Nike Shoes XL"}, "Shoes"); got != 100.0 {
		t.Errorf("MatchPercentage() = %v, want 100", got)
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{200.0 / 3.0, 66.67},
		{100.0 / 3.0, 33.33},
		{12.5, 12.5},
		{0, 0},
	}

	for _, tt := range tests {
		if got := roundTo(tt.v, 2); got != tt.want {
			t.Errorf("roundTo(%v, 2) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
