package metmuseum

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"artlog/internal/catalog"
)

// text decodes a JSON string, number or bool as a string and anything else
// as "". The collection API is inconsistent about field types.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*t = ""
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = text(s)
		}
	case 't', 'f':
		*t = text(b)
	case 'n', '[', '{':
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err == nil {
			*t = text(n.String())
		}
	}
	return nil
}

type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var t text
	_ = t.UnmarshalJSON(b)
	v, _ := strconv.ParseBool(string(t))
	*f = flag(v)
	return nil
}

// objectResponse mirrors GET /public/collection/v1/objects/{id}. Every field
// is optional.
type objectResponse struct {
	ObjectID              text     `json:"objectID"`
	IsHighlight           flag     `json:"isHighlight"`
	IsTimelineWork        flag     `json:"isTimelineWork"`
	AccessionNumber       text     `json:"accessionNumber"`
	AccessionYear         text     `json:"accessionYear"`
	IsPublicDomain        flag     `json:"isPublicDomain"`
	PrimaryImage          text     `json:"primaryImage"`
	PrimaryImageSmall     text     `json:"primaryImageSmall"`
	AdditionalImages      []text   `json:"additionalImages"`
	Department            text     `json:"department"`
	ObjectName            text     `json:"objectName"`
	Title                 text     `json:"title"`
	Culture               text     `json:"culture"`
	Period                text     `json:"period"`
	Dynasty               text     `json:"dynasty"`
	Reign                 text     `json:"reign"`
	Portfolio             text     `json:"portfolio"`
	ArtistRole            text     `json:"artistRole"`
	ArtistPrefix          text     `json:"artistPrefix"`
	ArtistDisplayName     text     `json:"artistDisplayName"`
	ArtistDisplayBio      text     `json:"artistDisplayBio"`
	ArtistSuffix          text     `json:"artistSuffix"`
	ArtistAlphaSort       text     `json:"artistAlphaSort"`
	ArtistNationality     text     `json:"artistNationality"`
	ArtistBeginDate       text     `json:"artistBeginDate"`
	ArtistEndDate         text     `json:"artistEndDate"`
	ArtistGender          text     `json:"artistGender"`
	ArtistULANURL         text     `json:"artistULAN_URL"`
	ArtistWikidataURL     text     `json:"artistWikidata_URL"`
	ObjectDate            text     `json:"objectDate"`
	ObjectBeginDate       text     `json:"objectBeginDate"`
	ObjectEndDate         text     `json:"objectEndDate"`
	Medium                text     `json:"medium"`
	Dimensions            text     `json:"dimensions"`
	CreditLine            text     `json:"creditLine"`
	GeographyType         text     `json:"geographyType"`
	City                  text     `json:"city"`
	State                 text     `json:"state"`
	County                text     `json:"county"`
	Country               text     `json:"country"`
	Region                text     `json:"region"`
	Subregion             text     `json:"subregion"`
	Locale                text     `json:"locale"`
	Locus                 text     `json:"locus"`
	Excavation            text     `json:"excavation"`
	River                 text     `json:"river"`
	Classification        text     `json:"classification"`
	RightsAndReproduction text     `json:"rightsAndReproduction"`
	LinkResource          text     `json:"linkResource"`
	ObjectWikidataURL     text     `json:"objectWikidata_URL"`
	MetadataDate          text     `json:"metadataDate"`
	Repository            text     `json:"repository"`
	GalleryNumber         text     `json:"GalleryNumber"`
	Tags                  []tagRow `json:"tags"`
}

type tagRow struct {
	Term        text `json:"term"`
	AATURL      text `json:"AAT_URL"`
	WikidataURL text `json:"Wikidata_URL"`
}

func (o objectResponse) record() catalog.Record {
	rec := catalog.Record{
		ID:                    string(o.ObjectID),
		ObjectNumber:          string(o.AccessionNumber),
		IsHighlight:           bool(o.IsHighlight),
		IsTimelineWork:        bool(o.IsTimelineWork),
		IsPublicDomain:        bool(o.IsPublicDomain),
		GalleryNumber:         string(o.GalleryNumber),
		Department:            string(o.Department),
		AccessionYear:         string(o.AccessionYear),
		ObjectName:            string(o.ObjectName),
		Title:                 string(o.Title),
		Culture:               string(o.Culture),
		Period:                string(o.Period),
		Dynasty:               string(o.Dynasty),
		Reign:                 string(o.Reign),
		Portfolio:             string(o.Portfolio),
		ArtistRole:            string(o.ArtistRole),
		ArtistPrefix:          string(o.ArtistPrefix),
		ArtistDisplayName:     string(o.ArtistDisplayName),
		ArtistDisplayBio:      string(o.ArtistDisplayBio),
		ArtistSuffix:          string(o.ArtistSuffix),
		ArtistAlphaSort:       string(o.ArtistAlphaSort),
		ArtistNationality:     string(o.ArtistNationality),
		ArtistBeginDate:       string(o.ArtistBeginDate),
		ArtistEndDate:         string(o.ArtistEndDate),
		ArtistGender:          string(o.ArtistGender),
		ArtistULANURL:         string(o.ArtistULANURL),
		ArtistWikidataURL:     string(o.ArtistWikidataURL),
		ObjectDate:            string(o.ObjectDate),
		ObjectBeginDate:       string(o.ObjectBeginDate),
		ObjectEndDate:         string(o.ObjectEndDate),
		Medium:                string(o.Medium),
		Dimensions:            string(o.Dimensions),
		CreditLine:            string(o.CreditLine),
		GeographyType:         string(o.GeographyType),
		City:                  string(o.City),
		State:                 string(o.State),
		County:                string(o.County),
		Country:               string(o.Country),
		Region:                string(o.Region),
		Subregion:             string(o.Subregion),
		Locale:                string(o.Locale),
		Locus:                 string(o.Locus),
		Excavation:            string(o.Excavation),
		River:                 string(o.River),
		Classification:        string(o.Classification),
		RightsAndReproduction: string(o.RightsAndReproduction),
		LinkResource:          string(o.LinkResource),
		ObjectWikidataURL:     string(o.ObjectWikidataURL),
		MetadataDate:          string(o.MetadataDate),
		Repository:            string(o.Repository),
		PrimaryImage:          string(o.PrimaryImage),
		PrimaryImageSmall:     string(o.PrimaryImageSmall),
		AdditionalImages:      o.additionalImages(),
	}

	// Same "|" joined form as the CSV export.
	var terms, aat, wd []string
	for _, t := range o.Tags {
		terms = append(terms, string(t.Term))
		aat = append(aat, string(t.AATURL))
		wd = append(wd, string(t.WikidataURL))
	}
	rec.Tags = strings.Join(terms, "|")
	rec.TagsAATURL = strings.Join(aat, "|")
	rec.TagsWikidataURL = strings.Join(wd, "|")
	return rec
}

func (o objectResponse) additionalImages() []string {
	out := make([]string, 0, len(o.AdditionalImages))
	for _, img := range o.AdditionalImages {
		if img != "" {
			out = append(out, string(img))
		}
	}
	return out
}
