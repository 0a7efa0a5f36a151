package ollama

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopsense/backend/internal/domain"
)

// buildSummaryPrompt lists sample product names per source and the matched
// sets, and asks for a 2-3 sentence comparison without prices or links.
func buildSummaryPrompt(req domain.SummaryRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Compare top products for '%s' across shopping sites.\n", req.Keyword)
	for _, sp := range req.Samples {
		names := make([]string, 0, len(sp.Products))
		for _, p := range sp.Products {
			if p.Name != "" {
				names = append(names, p.Name)
			}
		}
		fmt.Fprintf(&b, "%s: [%s]\n", sp.Source, strings.Join(names, "; "))
	}

	if len(req.Groups) > 0 {
		b.WriteString("Products found on more than one site:\n")
		for i, group := range req.Groups {
			fmt.Fprintf(&b, "%d. %s\n", i+1, describeGroup(group))
		}
	}

	b.WriteString("Don't list prices or links. Summarize the key similarities and differences in 2-3 sentences.")
	return b.String()
}

// describeGroup renders "source: brand name" pairs in source order
func describeGroup(group domain.MatchedGroup) string {
	sources := make([]string, 0, len(group))
	for source, p := range group {
		if p != nil {
			sources = append(sources, string(source))
		}
	}
	sort.Strings(sources)

	parts := make([]string, 0, len(sources))
	for _, source := range sources {
		p := group[domain.SourceName(source)]
		parts = append(parts, fmt.Sprintf("%s: %s", source, strings.TrimSpace(p.Brand+" "+p.Name)))
	}
	return strings.Join(parts, " | ")
}

func buildSuggestionPrompt(query string, count int) string {
	return fmt.Sprintf("Based on the user's interest in %q, suggest %d related product search phrases. "+
		"Keep them under 6 words, consumer-friendly, and diverse. Reply with one phrase per line.", query, count)
}
