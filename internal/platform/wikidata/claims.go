package wikidata

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

type ValueKind int

const (
	KindMissing ValueKind = iota
	KindString
	KindObject
	KindNumber
)

// ClaimValue is the decoded mainsnak datavalue of a claim. Wikibase stores
// strings (commons media, external ids), objects (time, entity references)
// and occasionally bare numbers under the same "value" key.
type ClaimValue struct {
	Kind ValueKind
	Str  string
	Num  float64
	Obj  map[string]any
}

func (v *ClaimValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*v = ClaimValue{}
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*v = ClaimValue{Kind: KindString, Str: s}
	case '{':
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return nil
		}
		*v = ClaimValue{Kind: KindObject, Obj: m}
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err == nil {
			*v = ClaimValue{Kind: KindNumber, Num: n}
		}
	}
	return nil
}

// AsString returns the value of a string claim.
func (v ClaimValue) AsString() (string, bool) {
	if v.Kind != KindString || v.Str == "" {
		return "", false
	}
	return v.Str, true
}

// Field returns a string-typed field of an object claim, such as "time".
func (v ClaimValue) Field(key string) (string, bool) {
	if v.Kind != KindObject {
		return "", false
	}
	s, ok := v.Obj[key].(string)
	return s, ok && s != ""
}

// EntityRef returns the item id of a wikibase-entityid claim.
func (v ClaimValue) EntityRef() (string, bool) {
	if id, ok := v.Field("id"); ok {
		return id, true
	}
	if v.Kind != KindObject {
		return "", false
	}
	if n, ok := v.Obj["numeric-id"].(float64); ok {
		return "Q" + strconv.FormatInt(int64(n), 10), true
	}
	return "", false
}

type entitiesResponse struct {
	Entities map[string]Entity `json:"entities"`
}

type Entity struct {
	ID           string                `json:"id"`
	Missing      *string               `json:"missing,omitempty"`
	Labels       map[string]langValue  `json:"labels"`
	Descriptions map[string]langValue  `json:"descriptions"`
	Claims       map[string][]claimRow `json:"claims"`
}

type langValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type claimRow struct {
	Mainsnak struct {
		Datavalue *struct {
			Value ClaimValue `json:"value"`
			Type  string     `json:"type"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

func (r claimRow) value() ClaimValue {
	if r.Mainsnak.Datavalue == nil {
		return ClaimValue{}
	}
	return r.Mainsnak.Datavalue.Value
}

// Claim returns the first value of property prop.
func (e Entity) Claim(prop string) ClaimValue {
	rows := e.Claims[prop]
	if len(rows) == 0 {
		return ClaimValue{}
	}
	return rows[0].value()
}

// ClaimValues returns every value of property prop in claim order.
func (e Entity) ClaimValues(prop string) []ClaimValue {
	rows := e.Claims[prop]
	out := make([]ClaimValue, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.value())
	}
	return out
}

func (e Entity) Label(lang string) (string, bool) {
	l, ok := e.Labels[lang]
	return l.Value, ok && l.Value != ""
}

func (e Entity) Description(lang string) (string, bool) {
	d, ok := e.Descriptions[lang]
	return d.Value, ok && d.Value != ""
}
