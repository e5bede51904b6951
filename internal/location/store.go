package location

import (
	"context"
	"errors"
)

// ErrNoMatch is returned by a Store lookup that found no row.
var ErrNoMatch = errors.New("no matching location")

// Store is the read-only location reference database. It is loaded once at
// process start and never mutated.
type Store interface {
	// ByCityState finds a location id by exact, case-insensitive (city, state).
	ByCityState(ctx context.Context, city, state string) (string, error)
	// ByAreaCity finds a location id by exact, case-insensitive (area, city).
	ByAreaCity(ctx context.Context, area, city string) (string, error)
	// ByFreeText finds a location id whose area, city, or state value is
	// contained in the free-text location, case-insensitively.
	ByFreeText(ctx context.Context, freeText string) (string, error)
}
