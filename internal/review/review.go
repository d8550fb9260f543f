package review

import (
	"errors"
	"time"
)

const (
	ArtworkCollection = "artworks"
	ReviewCollection  = "reviews"
)

var ErrNotFound = errors.New("not found")

// Artwork is a piece the user logged. Manually entered artworks are stored
// in their own collection; catalog-sourced ones are referenced by
// MetSourceID and never persisted.
type Artwork struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Artist            string    `json:"artist"`
	Date              string    `json:"date"`
	Medium            string    `json:"medium"`
	Movement          string    `json:"movement"`
	MetSourceID       string    `json:"metSourceId,omitempty"`
	ImageURL          string    `json:"imageURL,omitempty"`
	ArtistWikidataURL string    `json:"artistWikidataURL,omitempty"`
	ArtistULANURL     string    `json:"artistULANURL,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// FromCatalog reports whether the artwork references a catalog object.
func (a Artwork) FromCatalog() bool {
	return a.MetSourceID != ""
}

// Review is the experiential record of a viewing. The image and artist
// identity URLs are a snapshot taken at submission and are not recomputed.
type Review struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	ArtworkID         string    `json:"artworkId,omitempty"`
	MetSourceID       string    `json:"metSourceId,omitempty"`
	DateViewed        string    `json:"dateViewed"`
	Location          string    `json:"location"`
	ReviewText        string    `json:"reviewText"`
	ImageURL          string    `json:"imageURL,omitempty"`
	ArtistWikidataURL string    `json:"artistWikidataURL,omitempty"`
	ArtistULANURL     string    `json:"artistULANURL,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
