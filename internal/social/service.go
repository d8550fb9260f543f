package social

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"artlog/internal/docstore"
	"artlog/internal/logging"
	"artlog/internal/profile"
	"artlog/internal/review"
)

const lookupConcurrency = 8

type ReviewSource interface {
	ListByUsers(ctx context.Context, userIDs []string, limit int) ([]review.Review, error)
}

type Directory interface {
	Lookup(ctx context.Context, userID string) (profile.Document, error)
	FindByUsername(ctx context.Context, username string) (string, profile.Document, error)
}

type Service struct {
	docs    docstore.Store
	reviews ReviewSource
	users   Directory
}

func NewService(docs docstore.Store, reviews ReviewSource, users Directory) *Service {
	return &Service{docs: docs, reviews: reviews, users: users}
}

func (s *Service) Follow(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return ErrSelfFollow
	}
	return s.update(ctx, userID, func(ids []string) ([]string, bool) {
		if slices.Contains(ids, friendID) {
			return ids, false
		}
		return append(ids, friendID), true
	})
}

func (s *Service) Unfollow(ctx context.Context, userID, friendID string) error {
	return s.update(ctx, userID, func(ids []string) ([]string, bool) {
		i := slices.Index(ids, friendID)
		if i < 0 {
			return ids, false
		}
		return slices.Delete(ids, i, i+1), true
	})
}

// update applies change to the follow list inside a transaction. change
// reports whether anything needs writing.
func (s *Service) update(ctx context.Context, userID string, change func([]string) ([]string, bool)) error {
	err := s.docs.Transact(ctx, Collection, userID, func(current []byte, exists bool) ([]byte, error) {
		fields := map[string]json.RawMessage{}
		var f Following
		if exists {
			if err := json.Unmarshal(current, &fields); err != nil {
				return nil, fmt.Errorf("decode follow list: %w", err)
			}
			if raw, ok := fields["friendIds"]; ok {
				if err := json.Unmarshal(raw, &f.FriendIDs); err != nil {
					return nil, fmt.Errorf("decode friendIds: %w", err)
				}
			}
		}

		ids, changed := change(f.FriendIDs)
		if !changed {
			return nil, nil
		}
		if ids == nil {
			ids = []string{}
		}
		raw, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		fields["friendIds"] = raw
		return json.Marshal(fields)
	})
	if err != nil {
		return fmt.Errorf("update follow list for %s: %w", userID, err)
	}
	return nil
}

// FollowingIDs returns the ids userID follows, in follow order.
func (s *Service) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var f Following
	if err := docstore.GetJSON(ctx, s.docs, Collection, userID, &f); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	if f.FriendIDs == nil {
		return []string{}, nil
	}
	return f.FriendIDs, nil
}

func (s *Service) IsFollowing(ctx context.Context, userID, friendID string) (bool, error) {
	ids, err := s.FollowingIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, friendID), nil
}

// Following resolves each followed user's profile. A user whose profile
// cannot be read is listed as "User <id>".
func (s *Service) Following(ctx context.Context, userID string) ([]Friend, error) {
	ids, err := s.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]Friend, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.users.Lookup(gctx, id)
			if err != nil || p.Username == "" {
				friends[i] = Friend{UserID: id, Username: fallbackUsername(id)}
				return nil
			}
			friends[i] = Friend{UserID: id, Username: p.Username, Bio: p.Bio}
			return nil
		})
	}
	_ = g.Wait()
	return friends, nil
}

// FindByUsername looks up another user by exact username.
func (s *Service) FindByUsername(ctx context.Context, username string) (Friend, error) {
	id, doc, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return Friend{}, err
	}
	return Friend{UserID: id, Username: doc.Username, Bio: doc.Bio}, nil
}

// FriendActivity returns the most recent reviews by followed users, newest
// first.
func (s *Service) FriendActivity(ctx context.Context, userID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	ids, err := s.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Activity{}, nil
	}

	reviews, err := s.reviews.ListByUsers(ctx, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("friend activity for %s: %w", userID, err)
	}

	names := s.usernames(ctx, reviews)
	out := make([]Activity, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, Activity{UserID: rv.UserID, Username: names[rv.UserID], Review: rv})
	}
	return out, nil
}

func (s *Service) usernames(ctx context.Context, reviews []review.Review) map[string]string {
	var ids []string
	for _, rv := range reviews {
		if !slices.Contains(ids, rv.UserID) {
			ids = append(ids, rv.UserID)
		}
	}

	resolved := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			doc, err := s.users.Lookup(gctx, id)
			if err != nil && !errors.Is(err, profile.ErrNotFound) {
				logging.Ctx(ctx).Debug().Err(err).Str("user_id", id).Msg("username lookup failed")
			}
			if doc.Username == "" {
				doc.Username = fallbackUsername(id)
			}
			resolved[i] = doc.Username
			return nil
		})
	}
	_ = g.Wait()

	names := make(map[string]string, len(ids))
	for i, id := range ids {
		names[id] = resolved[i]
	}
	return names
}
