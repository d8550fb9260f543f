package wikidata

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	Unknown = "Unknown"
	Present = "Present"

	movementLookupLimit = 4
)

type ArtistDetails struct {
	Name        string   `json:"name"`
	BirthYear   string   `json:"birthYear"`
	DeathYear   string   `json:"deathYear"`
	ImageURL    string   `json:"imageURL,omitempty"`
	Movements   []string `json:"movements"`
	Nationality string   `json:"nationality"`
	Biography   string   `json:"biography"`
}

// FetchDetails reads artist metadata for an identity URL. Each field degrades
// on its own: a failed lookup leaves "Unknown" (or drops a movement) without
// affecting the others. ok is false when the URL carries no entity id or
// nothing at all could be read for the entity. A real label and image seed
// the ArtistName and ArtistImageURL caches.
func (c *Client) FetchDetails(ctx context.Context, identityURL string) (ArtistDetails, bool) {
	id, ok := EntityID(identityURL)
	if !ok {
		return ArtistDetails{}, false
	}

	// One claims request serves the four claim-based lookups.
	claims := sync.OnceValues(func() (Entity, bool) {
		return c.entity(ctx, id, "claims")
	})

	var (
		wg          sync.WaitGroup
		labelOK     bool
		name        string
		bio         string
		birth       = Unknown
		death       = Unknown
		deathKnown  bool
		nationality = Unknown
		movements   []string
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		e, ok := c.entity(ctx, id, "labels|descriptions")
		if !ok {
			return
		}
		labelOK = true
		name, _ = e.Label("en")
		bio, _ = e.Description("en")
	}()
	go func() {
		defer wg.Done()
		if e, ok := claims(); ok {
			if y, ok := claimYear(e.Claim(propBirth)); ok {
				birth = y
			}
		}
	}()
	go func() {
		defer wg.Done()
		if e, ok := claims(); ok {
			death, deathKnown = claimYear(e.Claim(propDeath))
			if !deathKnown {
				death = Unknown
			}
		}
	}()
	go func() {
		defer wg.Done()
		nationality = c.nationality(ctx, claims)
	}()
	go func() {
		defer wg.Done()
		movements = c.movements(ctx, claims)
	}()
	wg.Wait()

	e, claimsOK := claims()
	if !labelOK && !claimsOK {
		return ArtistDetails{}, false
	}

	if name != "" {
		c.store(c.names, identityURL, name)
	} else {
		name = "Artist " + id
	}
	if !deathKnown && birth != Unknown {
		death = Present
	}
	img, ok := imageURL(e.Claim(propImage))
	if ok {
		c.store(c.images, identityURL, img)
	}

	return ArtistDetails{
		Name:        name,
		BirthYear:   birth,
		DeathYear:   death,
		ImageURL:    img,
		Movements:   movements,
		Nationality: nationality,
		Biography:   bio,
	}, true
}

func (c *Client) nationality(ctx context.Context, claims func() (Entity, bool)) string {
	e, ok := claims()
	if !ok {
		return Unknown
	}
	ref, ok := e.Claim(propNationality).EntityRef()
	if !ok {
		return Unknown
	}
	if label, ok := c.label(ctx, ref); ok {
		return label
	}
	return Unknown
}

// movements resolves every P135 reference, keeping claim order and dropping
// references whose label lookup fails.
func (c *Client) movements(ctx context.Context, claims func() (Entity, bool)) []string {
	e, ok := claims()
	if !ok {
		return []string{}
	}

	var refs []string
	for _, v := range e.ClaimValues(propMovement) {
		if ref, ok := v.EntityRef(); ok {
			refs = append(refs, ref)
		}
	}

	labels := make([]string, len(refs))
	var g errgroup.Group
	g.SetLimit(movementLookupLimit)
	for i, ref := range refs {
		g.Go(func() error {
			if label, ok := c.label(ctx, ref); ok {
				labels[i] = label
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// claimYear reads the year from a time claim such as +1853-03-30T00:00:00Z.
func claimYear(v ClaimValue) (string, bool) {
	t, ok := v.Field("time")
	if !ok {
		return "", false
	}
	year, _, _ := strings.Cut(t, "-")
	year = strings.ReplaceAll(year, "+", "")
	return year, year != ""
}
