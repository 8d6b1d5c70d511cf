package memory

import (
	"context"
)

// SetLocales sets the configured locale codes
func (r *Repository) SetLocales(codes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locales = append([]string(nil), codes...)
}

// SetItemLocale assigns a locale to an item
func (r *Repository) SetItemLocale(id int64, locale string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemLocales[id] = locale
}

// LinkTranslations marks the given items as translations of each other
func (r *Repository) LinkTranslations(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextGroup++
	for _, id := range ids {
		r.groups[id] = r.nextGroup
	}
}

func (r *Repository) Locales(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.locales...), nil
}

func (r *Repository) ItemLocale(ctx context.Context, id int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.itemLocales[id], nil
}

func (r *Repository) Translation(ctx context.Context, id int64, locale string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.itemLocales[id] == locale {
		return id, nil
	}
	group, ok := r.groups[id]
	if !ok {
		return 0, nil
	}

	var found int64
	for member, g := range r.groups {
		if g == group && r.itemLocales[member] == locale && (found == 0 || member < found) {
			found = member
		}
	}
	return found, nil
}
