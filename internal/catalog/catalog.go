// Package catalog parses the bundled Met museum CSV export and serves
// in-memory search and lookup over the parsed records.
package catalog

import (
	"fmt"
	"strings"
)

// Record is one row of the Met catalog. The image fields are empty after
// parsing and are only filled by enrichment against the collection API.
type Record struct {
	ID                    string `json:"id"`
	ObjectNumber          string `json:"objectNumber"`
	IsHighlight           bool   `json:"isHighlight"`
	IsTimelineWork        bool   `json:"isTimelineWork"`
	IsPublicDomain        bool   `json:"isPublicDomain"`
	GalleryNumber         string `json:"galleryNumber,omitempty"`
	Department            string `json:"department"`
	AccessionYear         string `json:"accessionYear,omitempty"`
	ObjectName            string `json:"objectName"`
	Title                 string `json:"title"`
	Culture               string `json:"culture,omitempty"`
	Period                string `json:"period,omitempty"`
	Dynasty               string `json:"dynasty,omitempty"`
	Reign                 string `json:"reign,omitempty"`
	Portfolio             string `json:"portfolio,omitempty"`
	ConstituentID         string `json:"constituentId,omitempty"`
	ArtistRole            string `json:"artistRole,omitempty"`
	ArtistPrefix          string `json:"artistPrefix,omitempty"`
	ArtistDisplayName     string `json:"artistDisplayName"`
	ArtistDisplayBio      string `json:"artistDisplayBio,omitempty"`
	ArtistSuffix          string `json:"artistSuffix,omitempty"`
	ArtistAlphaSort       string `json:"artistAlphaSort,omitempty"`
	ArtistNationality     string `json:"artistNationality,omitempty"`
	ArtistBeginDate       string `json:"artistBeginDate,omitempty"`
	ArtistEndDate         string `json:"artistEndDate,omitempty"`
	ArtistGender          string `json:"artistGender,omitempty"`
	ArtistULANURL         string `json:"artistULAN_URL,omitempty"`
	ArtistWikidataURL     string `json:"artistWikidata_URL,omitempty"`
	ObjectDate            string `json:"objectDate"`
	ObjectBeginDate       string `json:"objectBeginDate,omitempty"`
	ObjectEndDate         string `json:"objectEndDate,omitempty"`
	Medium                string `json:"medium"`
	Dimensions            string `json:"dimensions,omitempty"`
	CreditLine            string `json:"creditLine,omitempty"`
	GeographyType         string `json:"geographyType,omitempty"`
	City                  string `json:"city,omitempty"`
	State                 string `json:"state,omitempty"`
	County                string `json:"county,omitempty"`
	Country               string `json:"country,omitempty"`
	Region                string `json:"region,omitempty"`
	Subregion             string `json:"subregion,omitempty"`
	Locale                string `json:"locale,omitempty"`
	Locus                 string `json:"locus,omitempty"`
	Excavation            string `json:"excavation,omitempty"`
	River                 string `json:"river,omitempty"`
	Classification        string `json:"classification"`
	RightsAndReproduction string `json:"rightsAndReproduction,omitempty"`
	LinkResource          string `json:"linkResource,omitempty"`
	ObjectWikidataURL     string `json:"objectWikidata_URL,omitempty"`
	MetadataDate          string `json:"metadataDate,omitempty"`
	Repository            string `json:"repository,omitempty"`
	Tags                  string `json:"tags,omitempty"`
	TagsAATURL            string `json:"tagsAAT_URL,omitempty"`
	TagsWikidataURL       string `json:"tagsWikidata_URL,omitempty"`

	PrimaryImage      string   `json:"primaryImage,omitempty"`
	PrimaryImageSmall string   `json:"primaryImageSmall,omitempty"`
	AdditionalImages  []string `json:"additionalImages,omitempty"`
}

// Layout is a fixed column mapping for one historical version of the export.
// Rows with fewer than MinFields fields are dropped.
type Layout struct {
	Name      string
	MinFields int
	build     func(f fields) Record
}

var (
	// LayoutLegacy is the original 42+ column export.
	LayoutLegacy = Layout{Name: "legacy", MinFields: 42, build: buildLegacy}
	// LayoutOpenAccess is the current Met Open Access CSV.
	LayoutOpenAccess = Layout{Name: "open_access", MinFields: 53, build: buildOpenAccess}
)

// ParseLayout resolves a configured layout name.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "legacy":
		return LayoutLegacy, nil
	case "open_access", "":
		return LayoutOpenAccess, nil
	default:
		return Layout{}, fmt.Errorf("unknown catalog layout %q", name)
	}
}

// fields is one split row. at returns "" past the end.
type fields []string

func (f fields) at(i int) string {
	if i < len(f) {
		return f[i]
	}
	return ""
}

func (f fields) flag(i int) bool {
	return strings.EqualFold(f.at(i), "true")
}

func buildLegacy(f fields) Record {
	return Record{
		ObjectNumber:          f.at(0),
		IsHighlight:           f.flag(1),
		IsPublicDomain:        f.flag(2),
		ID:                    f.at(3),
		Department:            f.at(4),
		ObjectName:            f.at(5),
		Title:                 f.at(6),
		Culture:               f.at(7),
		Period:                f.at(8),
		Dynasty:               f.at(9),
		Reign:                 f.at(10),
		Portfolio:             f.at(11),
		ArtistRole:            f.at(12),
		ArtistPrefix:          f.at(13),
		ArtistDisplayName:     f.at(14),
		ArtistDisplayBio:      f.at(15),
		ArtistSuffix:          f.at(16),
		ArtistAlphaSort:       f.at(17),
		ArtistNationality:     f.at(18),
		ArtistBeginDate:       f.at(19),
		ArtistEndDate:         f.at(20),
		ObjectDate:            f.at(21),
		ObjectBeginDate:       f.at(22),
		ObjectEndDate:         f.at(23),
		Medium:                f.at(24),
		Dimensions:            f.at(25),
		CreditLine:            f.at(26),
		GeographyType:         f.at(27),
		City:                  f.at(28),
		State:                 f.at(29),
		County:                f.at(30),
		Country:               f.at(31),
		Region:                f.at(32),
		Subregion:             f.at(33),
		Locale:                f.at(34),
		Locus:                 f.at(35),
		Excavation:            f.at(36),
		River:                 f.at(37),
		Classification:        f.at(38),
		RightsAndReproduction: f.at(39),
		LinkResource:          f.at(40),
		MetadataDate:          f.at(41),
		Repository:            f.at(42),
	}
}

func buildOpenAccess(f fields) Record {
	return Record{
		ObjectNumber:          f.at(0),
		IsHighlight:           f.flag(1),
		IsTimelineWork:        f.flag(2),
		IsPublicDomain:        f.flag(3),
		ID:                    f.at(4),
		GalleryNumber:         f.at(5),
		Department:            f.at(6),
		AccessionYear:         f.at(7),
		ObjectName:            f.at(8),
		Title:                 f.at(9),
		Culture:               f.at(10),
		Period:                f.at(11),
		Dynasty:               f.at(12),
		Reign:                 f.at(13),
		Portfolio:             f.at(14),
		ConstituentID:         f.at(15),
		ArtistRole:            f.at(16),
		ArtistPrefix:          f.at(17),
		ArtistDisplayName:     f.at(18),
		ArtistDisplayBio:      f.at(19),
		ArtistSuffix:          f.at(20),
		ArtistAlphaSort:       f.at(21),
		ArtistNationality:     f.at(22),
		ArtistBeginDate:       f.at(23),
		ArtistEndDate:         f.at(24),
		ArtistGender:          f.at(25),
		ArtistULANURL:         f.at(26),
		ArtistWikidataURL:     f.at(27),
		ObjectDate:            f.at(28),
		ObjectBeginDate:       f.at(29),
		ObjectEndDate:         f.at(30),
		Medium:                f.at(31),
		Dimensions:            f.at(32),
		CreditLine:            f.at(33),
		GeographyType:         f.at(34),
		City:                  f.at(35),
		State:                 f.at(36),
		County:                f.at(37),
		Country:               f.at(38),
		Region:                f.at(39),
		Subregion:             f.at(40),
		Locale:                f.at(41),
		Locus:                 f.at(42),
		Excavation:            f.at(43),
		River:                 f.at(44),
		Classification:        f.at(45),
		RightsAndReproduction: f.at(46),
		LinkResource:          f.at(47),
		ObjectWikidataURL:     f.at(48),
		MetadataDate:          f.at(49),
		Repository:            f.at(50),
		Tags:                  f.at(51),
		TagsAATURL:            f.at(52),
		TagsWikidataURL:       f.at(53),
	}
}
