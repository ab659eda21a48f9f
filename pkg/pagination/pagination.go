package pagination

import (
	"fmt"
	"strings"
)

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many products any listing request can ask for.
	MaxPageSize = 50
)

// Params holds relay-style cursor pagination inputs. The cursors are opaque
// tokens minted by the remote catalog; the app never inspects them.
type Params struct {
	First  int
	After  string
	Before string
}

// NormalizePageSize enforces the configured default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Normalize validates the cursor pair and clamps the page size.
// At most one of After/Before may be set.
func (p Params) Normalize() (Params, error) {
	p.After = strings.TrimSpace(p.After)
	p.Before = strings.TrimSpace(p.Before)
	if p.After != "" && p.Before != "" {
		return Params{}, fmt.Errorf("after and before cursors are mutually exclusive")
	}
	p.First = NormalizePageSize(p.First)
	return p, nil
}

// Backward reports whether the request pages toward earlier items.
func (p Params) Backward() bool {
	return p.Before != ""
}

// PageInfo mirrors the relay pageInfo block returned by the remote catalog.
// It is passed through verbatim so callers can build the next request.
type PageInfo struct {
	HasPreviousPage bool   `json:"hasPreviousPage"`
	HasNextPage     bool   `json:"hasNextPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
}
