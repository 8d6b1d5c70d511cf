package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tendant/simple-headless/pkg/headless"
)

// Search ranks published items of the given types by how often the words of
// term occur in their title (weighted double), excerpt and content.
func (r *Repository) Search(ctx context.Context, term string, types []string, locale string) ([]int64, error) {
	words := strings.Fields(strings.ToLower(term))
	if len(words) == 0 {
		return nil, nil
	}

	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	status := string(headless.StatusForTypes(types...))

	r.mu.RLock()
	defer r.mu.RUnlock()

	type hit struct {
		id    int64
		score int
	}
	var hits []hit
	for _, item := range r.items {
		if !allowed[item.Type] || item.Status != status {
			continue
		}
		if locale != "" && r.itemLocales[item.ID] != locale {
			continue
		}

		title := strings.ToLower(item.Title)
		body := strings.ToLower(item.Excerpt + " " + item.Content)
		score := 0
		for _, w := range words {
			score += 2*strings.Count(title, w) + strings.Count(body, w)
		}
		if score > 0 {
			hits = append(hits, hit{id: item.ID, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})

	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids, nil
}
