package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"artlog/internal/artist"
	"artlog/internal/docstore"
	"artlog/internal/review"
)

//go:generate mockgen -destination=mocks/stats_sources.go -package=mocks . ReviewLister,ArtistRanker

type ReviewLister interface {
	ListByUser(ctx context.Context, userID string) ([]review.Review, error)
}

type ArtistRanker interface {
	Counts(ctx context.Context, userID string) (map[string]artist.Aggregate, error)
	Top(ctx context.Context, userID string, limit int) ([]artist.Ranked, error)
}

type Service struct {
	docs    docstore.Store
	reviews ReviewLister
	artists ArtistRanker
}

func NewService(docs docstore.Store, reviews ReviewLister, artists ArtistRanker) *Service {
	return &Service{docs: docs, reviews: reviews, artists: artists}
}

// GetOwnProfile tolerates a missing users document so a freshly signed-up
// user still gets their stats.
func (s *Service) GetOwnProfile(ctx context.Context, userID string) (Profile, error) {
	doc, err := s.Lookup(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	return s.build(ctx, userID, doc)
}

func (s *Service) GetPublicProfile(ctx context.Context, userID string) (Profile, error) {
	doc, err := s.Lookup(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return s.build(ctx, userID, doc)
}

// FindByUsername returns the id of the first user with an exact username
// match.
func (s *Service) FindByUsername(ctx context.Context, username string) (string, Document, error) {
	docs, err := s.docs.Where(ctx, Collection, "username", strings.TrimSpace(username))
	if err != nil {
		return "", Document{}, fmt.Errorf("find user %q: %w", username, err)
	}
	if len(docs) == 0 {
		return "", Document{}, ErrNotFound
	}

	var doc Document
	if err := json.Unmarshal(docs[0].Data, &doc); err != nil {
		return "", Document{}, fmt.Errorf("decode user %s: %w", docs[0].ID, err)
	}
	return docs[0].ID, doc, nil
}

// UpdateProfile merges the provided fields into users/<id>. Username is
// trimmed and must be unique.
func (s *Service) UpdateProfile(ctx context.Context, userID string, cmd UpdateCommand) (Profile, error) {
	if cmd.Username != nil {
		name := strings.TrimSpace(*cmd.Username)
		if len([]rune(name)) < MinUsernameLen {
			return Profile{}, ErrInvalidUsername
		}
		owner, _, err := s.FindByUsername(ctx, name)
		switch {
		case err == nil && owner != userID:
			return Profile{}, ErrUsernameTaken
		case err != nil && !errors.Is(err, ErrNotFound):
			return Profile{}, err
		}
		cmd.Username = &name
	}

	err := s.docs.Transact(ctx, Collection, userID, func(current []byte, exists bool) ([]byte, error) {
		fields := map[string]json.RawMessage{}
		if exists {
			if err := json.Unmarshal(current, &fields); err != nil {
				return nil, fmt.Errorf("decode user: %w", err)
			}
		}
		if err := setString(fields, "username", cmd.Username); err != nil {
			return nil, err
		}
		if err := setString(fields, "bio", cmd.Bio); err != nil {
			return nil, err
		}
		return json.Marshal(fields)
	})
	if err != nil {
		return Profile{}, fmt.Errorf("update profile %s: %w", userID, err)
	}

	return s.GetOwnProfile(ctx, userID)
}

func setString(fields map[string]json.RawMessage, key string, v *string) error {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(*v)
	if err != nil {
		return err
	}
	fields[key] = raw
	return nil
}

// Lookup reads users/<id> without computing stats.
func (s *Service) Lookup(ctx context.Context, userID string) (Document, error) {
	var doc Document
	if err := docstore.GetJSON(ctx, s.docs, Collection, userID, &doc); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) build(ctx context.Context, userID string, doc Document) (Profile, error) {
	stats, err := s.computeStats(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		UserID:   userID,
		Username: doc.Username,
		Bio:      doc.Bio,
		Stats:    stats,
	}, nil
}

func (s *Service) computeStats(ctx context.Context, userID string) (Stats, error) {
	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	counts, err := s.artists.Counts(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	top, err := s.artists.Top(ctx, userID, topArtistsLimit)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		ReviewsCount: len(reviews),
		ArtistsCount: len(counts),
		TopArtists:   top,
	}, nil
}
