package wikidata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlog/internal/platform/apiclient"
)

// fakeWikidata serves canned api.php responses keyed by action and entity id.
type fakeWikidata struct {
	mu      sync.Mutex
	search  map[string]string // search term -> Qid
	labels  map[string]string // Qid -> en label
	descs   map[string]string
	claims  map[string]string // Qid -> raw claims JSON object
	failIDs map[string]bool   // ids that answer 404
	calls   map[string]int    // "action:ids:props" -> count
}

func newFake() *fakeWikidata {
	return &fakeWikidata{
		search:  map[string]string{},
		labels:  map[string]string{},
		descs:   map[string]string{},
		claims:  map[string]string{},
		failIDs: map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeWikidata) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeWikidata) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.calls[q.Get("action")+":"+q.Get("ids")+":"+q.Get("props")]++
	f.mu.Unlock()

	switch q.Get("action") {
	case "wbsearchentities":
		if q.Get("limit") != "1" || q.Get("type") != "item" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if id, ok := f.search[q.Get("search")]; ok {
			fmt.Fprintf(w, `{"search":[{"id":%q,"label":"x"}]}`, id)
			return
		}
		w.Write([]byte(`{"search":[]}`))
	case "wbgetentities":
		id := q.Get("ids")
		if f.failIDs[id] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		label, hasLabel := f.labels[id]
		claims, hasClaims := f.claims[id]
		if !hasLabel && !hasClaims {
			fmt.Fprintf(w, `{"entities":{%q:{"id":%q,"missing":""}}}`, id, id)
			return
		}
		parts := []string{fmt.Sprintf(`"id":%q`, id)}
		props := q.Get("props")
		if strings.Contains(props, "labels") && hasLabel {
			parts = append(parts, fmt.Sprintf(`"labels":{"en":{"language":"en","value":%q}}`, label))
		}
		if strings.Contains(props, "descriptions") {
			if d, ok := f.descs[id]; ok {
				parts = append(parts, fmt.Sprintf(`"descriptions":{"en":{"language":"en","value":%q}}`, d))
			}
		}
		if strings.Contains(props, "claims") && hasClaims {
			parts = append(parts, `"claims":`+claims)
		}
		fmt.Fprintf(w, `{"entities":{%q:{%s}}}`, id, strings.Join(parts, ","))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(apiclient.New(apiclient.Config{
		Source:  "wikidata-test",
		BaseURL: srv.URL + "/w/api.php",
		Backoff: time.Millisecond,
	}))
}

func timeClaim(prop, t string) string {
	return fmt.Sprintf(`%q:[{"mainsnak":{"datavalue":{"value":{"time":%q,"precision":11},"type":"time"}}}]`, prop, t)
}

func refClaim(prop string, ids ...string) string {
	rows := make([]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, fmt.Sprintf(`{"mainsnak":{"datavalue":{"value":{"entity-type":"item","numeric-id":1,"id":%q},"type":"wikibase-entityid"}}}`, id))
	}
	return fmt.Sprintf(`%q:[%s]`, prop, strings.Join(rows, ","))
}

func stringClaim(prop, v string) string {
	return fmt.Sprintf(`%q:[{"mainsnak":{"datavalue":{"value":%q,"type":"string"}}}]`, prop, v)
}

func obj(claims ...string) string {
	return "{" + strings.Join(claims, ",") + "}"
}

func TestEntityID(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "https://www.wikidata.org/wiki/Q5582", want: "Q5582", wantOK: true},
		{in: "https://www.wikidata.org/wiki/Q5582/", want: "Q5582", wantOK: true},
		{in: "Q296", want: "Q296", wantOK: true},
		{in: "https://example.com/artist/5582", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := EntityID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	fake := newFake()
	fake.search["Claude Monet"] = "Q296"
	fake.labels["Q296"] = "Claude Monet"
	fake.claims["Q296"] = obj(stringClaim("P245", "500019484"))
	fake.search["Unknown Painter"] = "Q1"
	fake.labels["Q1"] = "Unknown Painter"
	fake.search["Broken Claims"] = "Q2"
	fake.failIDs["Q2"] = true
	c := newTestClient(t, fake)

	t.Run("wikidata and ulan", func(t *testing.T) {
		id := c.ResolveIdentity(t.Context(), "Claude Monet")
		assert.Equal(t, Identity{
			WikidataURL: "https://www.wikidata.org/wiki/Q296",
			ULANURL:     "http://vocab.getty.edu/ulan/500019484",
		}, id)
	})

	t.Run("no ulan claim", func(t *testing.T) {
		id := c.ResolveIdentity(t.Context(), "Unknown Painter")
		assert.Equal(t, "https://www.wikidata.org/wiki/Q1", id.WikidataURL)
		assert.Empty(t, id.ULANURL)
	})

	t.Run("claims lookup failure keeps wikidata url", func(t *testing.T) {
		id := c.ResolveIdentity(t.Context(), "Broken Claims")
		assert.Equal(t, "https://www.wikidata.org/wiki/Q2", id.WikidataURL)
		assert.Empty(t, id.ULANURL)
	})

	t.Run("no hit", func(t *testing.T) {
		assert.True(t, c.ResolveIdentity(t.Context(), "Nobody At All").IsZero())
	})

	t.Run("blank name makes no request", func(t *testing.T) {
		before := fake.count("wbsearchentities::")
		assert.Equal(t, Identity{}, c.ResolveIdentity(t.Context(), "   "))
		assert.Equal(t, before, fake.count("wbsearchentities::"))
	})
}

func TestResolveIdentity_TransportFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))

	assert.Equal(t, Identity{}, c.ResolveIdentity(t.Context(), "Claude Monet"))
}

func TestFetchDetails(t *testing.T) {
	fake := newFake()
	fake.labels["Q5582"] = "Vincent van Gogh"
	fake.descs["Q5582"] = "Dutch post-impressionist painter (1853-1890)"
	fake.claims["Q5582"] = obj(
		timeClaim("P569", "+1853-03-30T00:00:00Z"),
		timeClaim("P570", "+1890-07-29T00:00:00Z"),
		refClaim("P27", "Q55"),
		refClaim("P135", "Q166713", "Q404", "Q40415"),
		stringClaim("P18", "Vincent van Gogh - Self-Portrait.jpg"),
	)
	fake.labels["Q55"] = "Netherlands"
	fake.labels["Q166713"] = "Post-Impressionism"
	fake.failIDs["Q404"] = true
	fake.labels["Q40415"] = "Impressionism"
	c := newTestClient(t, fake)

	d, ok := c.FetchDetails(t.Context(), "https://www.wikidata.org/wiki/Q5582")
	require.True(t, ok)
	assert.Equal(t, ArtistDetails{
		Name:        "Vincent van Gogh",
		BirthYear:   "1853",
		DeathYear:   "1890",
		ImageURL:    "https://commons.wikimedia.org/wiki/Special:FilePath/Vincent_van_Gogh_-_Self-Portrait.jpg?width=300",
		Movements:   []string{"Post-Impressionism", "Impressionism"},
		Nationality: "Netherlands",
		Biography:   "Dutch post-impressionist painter (1853-1890)",
	}, d)

	assert.Equal(t, 1, fake.count("wbgetentities:Q5582:claims"), "claims fetched once")

	t.Run("seeds name and image caches", func(t *testing.T) {
		name, ok := c.ArtistName(t.Context(), "https://www.wikidata.org/wiki/Q5582")
		require.True(t, ok)
		assert.Equal(t, "Vincent van Gogh", name)

		img, ok := c.ArtistImageURL(t.Context(), "https://www.wikidata.org/wiki/Q5582")
		require.True(t, ok)
		assert.Equal(t, d.ImageURL, img)

		assert.Equal(t, 0, fake.count("wbgetentities:Q5582:labels"))
		assert.Equal(t, 1, fake.count("wbgetentities:Q5582:claims"))
	})

	t.Run("fallback name is not cached", func(t *testing.T) {
		fake.claims["Q11"] = obj(stringClaim("P31", "human"))
		d, ok := c.FetchDetails(t.Context(), "Q11")
		require.True(t, ok)
		assert.Equal(t, "Artist Q11", d.Name)

		_, ok = c.ArtistName(t.Context(), "Q11")
		assert.False(t, ok)
	})
}

func TestFetchDetails_Degradation(t *testing.T) {
	fake := newFake()
	// Living artist: birth only, nationality label unavailable.
	fake.labels["Q10"] = "Living Artist"
	fake.claims["Q10"] = obj(timeClaim("P569", "+1961-01-01T00:00:00Z"), refClaim("P27", "Q999"))
	fake.failIDs["Q999"] = true
	// No dates and no label.
	fake.claims["Q11"] = obj(stringClaim("P31", "human"))
	c := newTestClient(t, fake)

	t.Run("missing death with known birth is present", func(t *testing.T) {
		d, ok := c.FetchDetails(t.Context(), "Q10")
		require.True(t, ok)
		assert.Equal(t, "1961", d.BirthYear)
		assert.Equal(t, Present, d.DeathYear)
		assert.Equal(t, Unknown, d.Nationality)
		assert.Empty(t, d.Movements)
		assert.Empty(t, d.ImageURL)
	})

	t.Run("no dates and no label", func(t *testing.T) {
		d, ok := c.FetchDetails(t.Context(), "https://www.wikidata.org/wiki/Q11")
		require.True(t, ok)
		assert.Equal(t, "Artist Q11", d.Name)
		assert.Equal(t, Unknown, d.BirthYear)
		assert.Equal(t, Unknown, d.DeathYear)
		assert.Equal(t, Unknown, d.Nationality)
	})

	t.Run("unparsable url", func(t *testing.T) {
		_, ok := c.FetchDetails(t.Context(), "not-an-entity")
		assert.False(t, ok)
	})

	t.Run("missing entity", func(t *testing.T) {
		_, ok := c.FetchDetails(t.Context(), "Q12345")
		assert.False(t, ok)
	})
}

func TestArtistNameAndImage_Cached(t *testing.T) {
	fake := newFake()
	fake.labels["Q296"] = "Claude Monet"
	fake.claims["Q296"] = obj(stringClaim("P18", "Claude Monet 1899 Nadar crop.jpg"))
	c := newTestClient(t, fake)
	url := "https://www.wikidata.org/wiki/Q296"

	for i := 0; i < 3; i++ {
		name, ok := c.ArtistName(t.Context(), url)
		require.True(t, ok)
		assert.Equal(t, "Claude Monet", name)

		img, ok := c.ArtistImageURL(t.Context(), url)
		require.True(t, ok)
		assert.Equal(t, "https://commons.wikimedia.org/wiki/Special:FilePath/Claude_Monet_1899_Nadar_crop.jpg?width=300", img)
	}

	assert.Equal(t, 1, fake.count("wbgetentities:Q296:labels"))
	assert.Equal(t, 1, fake.count("wbgetentities:Q296:claims"))

	_, ok := c.ArtistImageURL(t.Context(), "Q404404")
	assert.False(t, ok)
}

func TestClaimValue_Decode(t *testing.T) {
	var e Entity
	raw := `{"id":"Q1","claims":{
		"P1":[{"mainsnak":{"datavalue":{"value":"text"}}}],
		"P2":[{"mainsnak":{"datavalue":{"value":42}}}],
		"P3":[{"mainsnak":{"datavalue":{"value":{"time":"+1900-01-01T00:00:00Z"}}}}],
		"P4":[{"mainsnak":{"snaktype":"novalue"}}],
		"P5":[{"mainsnak":{"datavalue":{"value":[1,2]}}}],
		"P6":[{"mainsnak":{"datavalue":{"value":{"entity-type":"item","numeric-id":142}}}}]
	}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &e))

	assert.Equal(t, KindString, e.Claim("P1").Kind)
	assert.Equal(t, KindNumber, e.Claim("P2").Kind)
	assert.Equal(t, 42.0, e.Claim("P2").Num)
	assert.Equal(t, KindObject, e.Claim("P3").Kind)
	assert.Equal(t, KindMissing, e.Claim("P4").Kind)
	assert.Equal(t, KindMissing, e.Claim("P5").Kind)
	assert.Equal(t, KindMissing, e.Claim("P99").Kind)

	ref, ok := e.Claim("P6").EntityRef()
	assert.True(t, ok)
	assert.Equal(t, "Q142", ref)

	year, ok := claimYear(e.Claim("P3"))
	assert.True(t, ok)
	assert.Equal(t, "1900", year)
}
