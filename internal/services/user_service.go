package services

import (
	"context"
	"slices"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/store"
	"gorm.io/datatypes"
)

// UserInput is a full profile as sent on creation.
type UserInput struct {
	Email            string
	DisplayName      string
	Nationality      string
	TeamsFollowing   []string
	PlayersFollowing []string
}

// UserPatch changes only the fields that are non-nil.
type UserPatch struct {
	DisplayName      *string
	Nationality      *string
	TeamsFollowing   []string
	PlayersFollowing []string
}

type UserService struct {
	store   *store.Store
	timeout time.Duration
}

func NewUserService(st *store.Store, timeout time.Duration) *UserService {
	return &UserService{store: st, timeout: timeout}
}

// Create stores the profile for uid, overwriting any previous one.
func (s *UserService) Create(ctx context.Context, uid string, in UserInput) (*models.User, error) {
	if in.Email == "" {
		return nil, apperr.InvalidArgument("email is required")
	}
	user := &models.User{
		UID:              uid,
		Email:            in.Email,
		DisplayName:      in.DisplayName,
		Nationality:      in.Nationality,
		TeamsFollowing:   uniqueIDs(in.TeamsFollowing),
		PlayersFollowing: uniqueIDs(in.PlayersFollowing),
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.PutUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.GetUser(ctx, uid)
}

func (s *UserService) Update(ctx context.Context, uid string, patch UserPatch) (*models.User, error) {
	return s.update(ctx, uid, func(u *models.User) {
		if patch.DisplayName != nil {
			u.DisplayName = *patch.DisplayName
		}
		if patch.Nationality != nil {
			u.Nationality = *patch.Nationality
		}
		if patch.TeamsFollowing != nil {
			u.TeamsFollowing = uniqueIDs(patch.TeamsFollowing)
		}
		if patch.PlayersFollowing != nil {
			u.PlayersFollowing = uniqueIDs(patch.PlayersFollowing)
		}
	})
}

func (s *UserService) Delete(ctx context.Context, uid string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.DeleteUser(ctx, uid)
}

func (s *UserService) FollowTeam(ctx context.Context, uid, teamID string) (*models.User, error) {
	return s.update(ctx, uid, func(u *models.User) { u.TeamsFollowing = follow(u.TeamsFollowing, teamID) })
}

func (s *UserService) UnfollowTeam(ctx context.Context, uid, teamID string) (*models.User, error) {
	return s.update(ctx, uid, func(u *models.User) { u.TeamsFollowing = unfollow(u.TeamsFollowing, teamID) })
}

func (s *UserService) FollowPlayer(ctx context.Context, uid, playerID string) (*models.User, error) {
	return s.update(ctx, uid, func(u *models.User) { u.PlayersFollowing = follow(u.PlayersFollowing, playerID) })
}

func (s *UserService) UnfollowPlayer(ctx context.Context, uid, playerID string) (*models.User, error) {
	return s.update(ctx, uid, func(u *models.User) { u.PlayersFollowing = unfollow(u.PlayersFollowing, playerID) })
}

func (s *UserService) update(ctx context.Context, uid string, fn func(*models.User)) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.UpdateUser(ctx, uid, func(u *models.User) error {
		fn(u)
		return nil
	})
}

func follow(ids datatypes.JSONSlice[string], id string) datatypes.JSONSlice[string] {
	if id == "" || slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func unfollow(ids datatypes.JSONSlice[string], id string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func uniqueIDs(ids []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
