package catalog

import "strings"

// Index is an immutable in-memory view over parsed records. Safe for
// concurrent reads.
type Index struct {
	records []Record
}

func NewIndex(records []Record) *Index {
	return &Index{records: records}
}

// Search returns records whose title, artist, object name, department,
// classification or tags contain query, case-insensitively, in catalog
// order. A blank query matches nothing.
func (x *Index) Search(query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Record{}
	}

	out := []Record{}
	for _, r := range x.records {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Record, q string) bool {
	for _, v := range [...]string{r.Title, r.ArtistDisplayName, r.ObjectName, r.Department, r.Classification, r.Tags} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// GetByID returns the first record with the given object id.
func (x *Index) GetByID(id string) (Record, bool) {
	for _, r := range x.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (x *Index) Count() int {
	return len(x.records)
}
