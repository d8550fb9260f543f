package profile

import (
	"errors"

	"artlog/internal/artist"
)

const (
	Collection      = "users"
	MinUsernameLen  = 3
	topArtistsLimit = 5
)

var (
	ErrNotFound        = errors.New("profile not found")
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
	ErrUsernameTaken   = errors.New("username already taken")
)

// Document is the stored users/<id> body.
type Document struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

type Stats struct {
	ReviewsCount int             `json:"reviewsCount"`
	ArtistsCount int             `json:"artistsCount"`
	TopArtists   []artist.Ranked `json:"topArtists"`
}

type Profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Stats    Stats  `json:"stats"`
}

type UpdateCommand struct {
	Username *string `json:"username" validate:"omitempty,max=40"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}
