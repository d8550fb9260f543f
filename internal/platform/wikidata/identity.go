package wikidata

import (
	"context"
	"net/url"
	"strings"

	"artlog/internal/logging"
)

// Identity is the pair of authority URLs attached to artworks and reviews.
// ULANURL is never set without WikidataURL.
type Identity struct {
	WikidataURL string `json:"wikidataURL,omitempty"`
	ULANURL     string `json:"ulanURL,omitempty"`
}

func (i Identity) IsZero() bool {
	return i.WikidataURL == ""
}

type searchResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

// ResolveIdentity takes the single best Wikidata search hit for name. There
// is no disambiguation: common names can resolve to the wrong person.
func (c *Client) ResolveIdentity(ctx context.Context, name string) Identity {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}
	}

	u := c.endpoint(url.Values{
		"action":   {"wbsearchentities"},
		"search":   {name},
		"language": {"en"},
		"limit":    {"1"},
		"type":     {"item"},
	})

	var res searchResponse
	if err := c.api.GetJSON(ctx, u, &res); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("artist", name).Msg("wikidata search failed")
		return Identity{}
	}
	if len(res.Search) == 0 || res.Search[0].ID == "" {
		return Identity{}
	}

	qid := res.Search[0].ID
	id := Identity{WikidataURL: EntityURLPrefix + qid}

	if e, ok := c.entity(ctx, qid, "claims"); ok {
		if raw, ok := e.Claim(propULAN).AsString(); ok {
			id.ULANURL = ULANURLPrefix + raw
		}
	}
	return id
}
