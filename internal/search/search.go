package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/troutctl/internal/domain"
)

// FilterResult is a matched item with its rank
type FilterResult[T domain.ListItem] struct {
	Item  T
	Score int // Levenshtein distance, lower is better
}

// Rank fuzzy-matches query against each item's title and description.
// Results are sorted by score; equal scores keep the input order.
// An empty query matches nothing.
func Rank[T domain.ListItem](items []T, query string) []FilterResult[T] {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}

	targets := make([]string, len(items))
	for i, item := range items {
		targets[i] = item.GetTitle() + " " + item.GetDescription()
	}

	matches := fuzzy.RankFindFold(query, targets)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	results := make([]FilterResult[T], len(matches))
	for i, m := range matches {
		results[i] = FilterResult[T]{Item: items[m.OriginalIndex], Score: m.Distance}
	}
	return results
}

// Filter is Rank without the scores. An empty query returns items unchanged.
func Filter[T domain.ListItem](items []T, query string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	ranked := Rank(items, query)
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.Item
	}
	return out
}
