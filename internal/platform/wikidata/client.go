// Package wikidata resolves free-text artist names to Wikidata and Getty ULAN
// identities and reads artist metadata from Wikidata entities.
//
// Lookups never return errors to callers: transport failures, decode
// failures and missing entities all degrade to empty values.
package wikidata

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"artlog/internal/logging"
	"artlog/internal/platform/apiclient"
)

const (
	EntityURLPrefix = "https://www.wikidata.org/wiki/"
	ULANURLPrefix   = "http://vocab.getty.edu/ulan/"
	CommonsFilePath = "https://commons.wikimedia.org/wiki/Special:FilePath/"

	propULAN        = "P245"
	propImage       = "P18"
	propBirth       = "P569"
	propDeath       = "P570"
	propNationality = "P27"
	propMovement    = "P135"
)

type Client struct {
	api *apiclient.Client

	mu     sync.RWMutex
	names  map[string]string
	images map[string]string
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{
		api:    api,
		names:  make(map[string]string),
		images: make(map[string]string),
	}
}

// EntityID extracts the item id from https://www.wikidata.org/wiki/Q123 or a
// bare Q123.
func EntityID(identityURL string) (string, bool) {
	s := strings.TrimSpace(identityURL)
	if _, after, found := strings.Cut(s, "/wiki/"); found {
		id, _, _ := strings.Cut(after, "/")
		return id, id != ""
	}
	if strings.HasPrefix(s, "Q") {
		return s, true
	}
	return "", false
}

func (c *Client) endpoint(params url.Values) string {
	params.Set("format", "json")
	return c.api.BaseURL() + "?" + params.Encode()
}

// entity fetches one entity. A missing entity or failed call reports false.
func (c *Client) entity(ctx context.Context, id string, props string) (Entity, bool) {
	u := c.endpoint(url.Values{
		"action":    {"wbgetentities"},
		"ids":       {id},
		"props":     {props},
		"languages": {"en"},
	})

	var res entitiesResponse
	if err := c.api.GetJSON(ctx, u, &res); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("entity", id).Str("props", props).Msg("wikidata entity lookup failed")
		return Entity{}, false
	}
	e, ok := res.Entities[id]
	if !ok || e.Missing != nil {
		return Entity{}, false
	}
	return e, true
}

// label returns the English label of an entity.
func (c *Client) label(ctx context.Context, id string) (string, bool) {
	e, ok := c.entity(ctx, id, "labels")
	if !ok {
		return "", false
	}
	return e.Label("en")
}

func imageURL(v ClaimValue) (string, bool) {
	file, ok := v.AsString()
	if !ok {
		return "", false
	}
	return CommonsFilePath + url.PathEscape(strings.ReplaceAll(file, " ", "_")) + "?width=300", true
}
