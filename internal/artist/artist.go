// Package artist maintains the per-user artist frequency aggregate: one
// document per user at artists/<userId> mapping an artist identity URL to a
// review count and a representative image.
package artist

import (
	"bytes"
	"errors"
	"math"

	"github.com/goccy/go-json"
)

const Collection = "artists"

var (
	ErrAggregateWrite = errors.New("artist aggregate write failed")
	errNullAggregate  = errors.New("null artist aggregate")
)

type Aggregate struct {
	Count    int    `json:"count"`
	ImageURL string `json:"imageURL,omitempty"`
}

// UnmarshalJSON also accepts the legacy form, a bare integer count. A null
// entry is an error.
func (a *Aggregate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isNull(b) {
		return errNullAggregate
	}
	if len(b) > 0 && b[0] != '{' {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*a = Aggregate{Count: int(math.Round(n))}
		return nil
	}

	type plain Aggregate
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Aggregate(p)
	return nil
}

// Ranked is one row of a top-artists listing.
type Ranked struct {
	URL      string `json:"url"`
	Count    int    `json:"count"`
	ImageURL string `json:"imageURL,omitempty"`
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}
