package location

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/hirestack/resume-intake/constants"
)

// Query is the free-text location evidence extracted from a resume. Each
// field may be empty or the "not available" sentinel.
type Query struct {
	Area     string
	City     string
	State    string
	FreeText string
}

// Resolver maps a Query to a canonical location identifier through an ordered
// fallback chain, returning on the first hit.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

func NewResolver(store Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve tries (city, state), then (area, city), then free-text containment,
// skipping steps whose inputs are missing. Every miss, store errors included,
// falls through; the sentinel is returned when the chain is exhausted.
func (r *Resolver) Resolve(ctx context.Context, q Query) string {
	if r.store == nil {
		return constants.NotAvailable
	}

	if present(q.City) && present(q.State) {
		if id, err := r.store.ByCityState(ctx, strings.TrimSpace(q.City), strings.TrimSpace(q.State)); err == nil {
			return id
		} else if !errors.Is(err, ErrNoMatch) {
			r.logger.Warn("location.lookup.city_state", "error", err)
		}
	}
	if present(q.Area) && present(q.City) {
		if id, err := r.store.ByAreaCity(ctx, strings.TrimSpace(q.Area), strings.TrimSpace(q.City)); err == nil {
			return id
		} else if !errors.Is(err, ErrNoMatch) {
			r.logger.Warn("location.lookup.area_city", "error", err)
		}
	}
	if present(q.FreeText) {
		if id, err := r.store.ByFreeText(ctx, q.FreeText); err == nil {
			return id
		} else if !errors.Is(err, ErrNoMatch) {
			r.logger.Warn("location.lookup.free_text", "error", err)
		}
	}
	return constants.NotAvailable
}

func present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != constants.NotAvailable
}
