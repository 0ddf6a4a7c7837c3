package catalog

import (
	"sort"
	"strings"

	"github.com/arbovm/levenshtein"
)

type Match struct {
	Item Item
	// Distance is the smallest edit distance between the query and
	// the name or one of the keywords
	Distance int
	// Substring is set when the query appears as-is in the name or a keyword
	Substring bool
}

// Search ranks items against `query`: substring matches first, then
// by edit distance, then by name. A `limit` of zero or less means
// no limit.
func Search(c *Catalog, query string, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))

	var matches []Match
	for _, item := range c.Items {
		m := Match{Item: item, Distance: -1}

		consider := func(candidate string) {
			candidate = strings.ToLower(candidate)
			if query != "" && strings.Contains(candidate, query) {
				m.Substring = true
			}
			d := levenshtein.Distance(query, candidate)
			if m.Distance < 0 || d < m.Distance {
				m.Distance = d
			}
		}

		consider(item.Name)
		for _, group := range item.Keywords {
			for _, kw := range group {
				consider(kw)
			}
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Substring != b.Substring {
			return a.Substring
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Item.Name < b.Item.Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
