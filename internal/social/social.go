// Package social keeps the follow graph and builds the friend activity feed.
package social

import (
	"errors"

	"artlog/internal/review"
)

const (
	Collection           = "friends"
	DefaultActivityLimit = 20
)

var ErrSelfFollow = errors.New("cannot follow yourself")

// Following is the stored friends/<user> body.
type Following struct {
	FriendIDs []string `json:"friendIds"`
}

type Friend struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

type Activity struct {
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
	Review   review.Review `json:"review"`
}

func fallbackUsername(userID string) string {
	return "User " + userID
}
