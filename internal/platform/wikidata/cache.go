package wikidata

import "context"

// ArtistName returns the English label for an identity URL. Successful
// lookups are cached for the life of the client.
func (c *Client) ArtistName(ctx context.Context, identityURL string) (string, bool) {
	if name, ok := c.cached(c.names, identityURL); ok {
		return name, true
	}

	id, ok := EntityID(identityURL)
	if !ok {
		return "", false
	}
	name, ok := c.label(ctx, id)
	if !ok {
		return "", false
	}

	c.store(c.names, identityURL, name)
	return name, true
}

// ArtistImageURL returns a 300px Commons thumbnail URL from the entity's P18
// claim. Successful lookups are cached for the life of the client.
func (c *Client) ArtistImageURL(ctx context.Context, identityURL string) (string, bool) {
	if img, ok := c.cached(c.images, identityURL); ok {
		return img, true
	}

	id, ok := EntityID(identityURL)
	if !ok {
		return "", false
	}
	e, ok := c.entity(ctx, id, "claims")
	if !ok {
		return "", false
	}
	img, ok := imageURL(e.Claim(propImage))
	if !ok {
		return "", false
	}

	c.store(c.images, identityURL, img)
	return img, true
}

func (c *Client) cached(m map[string]string, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := m[key]
	return v, ok
}

func (c *Client) store(m map[string]string, key, value string) {
	c.mu.Lock()
	m[key] = value
	c.mu.Unlock()
}
