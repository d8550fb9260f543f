// Package metmuseum reads single objects from the Met collection API and uses
// them to attach image URLs to catalog records.
package metmuseum

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"artlog/internal/catalog"
	"artlog/internal/logging"
	"artlog/internal/metrics"
	"artlog/internal/platform/apiclient"
)

var ErrNotFound = errors.New("met object not found")

type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// FetchByID returns the full object record including its image fields.
func (c *Client) FetchByID(ctx context.Context, objectID string) (catalog.Record, error) {
	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		return catalog.Record{}, fmt.Errorf("%w: empty object id", ErrNotFound)
	}

	u := fmt.Sprintf("%s/objects/%s", c.api.BaseURL(), url.PathEscape(objectID))

	var res objectResponse
	if err := c.api.GetJSON(ctx, u, &res); err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			return catalog.Record{}, fmt.Errorf("%w: %s", ErrNotFound, objectID)
		}
		return catalog.Record{}, fmt.Errorf("fetch met object %s: %w", objectID, err)
	}

	rec := res.record()
	if rec.ID == "" {
		rec.ID = objectID
	}
	return rec, nil
}

// Enrich returns a copy of rec with its image fields taken from the API. On
// any failure rec is returned unchanged.
func (c *Client) Enrich(ctx context.Context, rec catalog.Record) catalog.Record {
	full, err := c.FetchByID(ctx, rec.ID)
	if err != nil {
		metrics.EnrichFallbacks.Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("object_id", rec.ID).Msg("met enrichment skipped")
		return rec
	}

	out := rec
	out.PrimaryImage = full.PrimaryImage
	out.PrimaryImageSmall = full.PrimaryImageSmall
	out.AdditionalImages = full.AdditionalImages
	return out
}
