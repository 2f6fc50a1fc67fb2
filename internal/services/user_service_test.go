package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetopia/basetopia-backend/internal/store"
)

func TestUserServiceLifecycle(t *testing.T) {
	svc := NewUserService(newTestStore(t), time.Second)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", UserInput{
		Email:          "u1@x.com",
		DisplayName:    "Fan",
		Nationality:    "JP",
		TeamsFollowing: []string{"147", "147", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"147"}, []string(created.TeamsFollowing))
	assert.NotNil(t, created.PlayersFollowing)

	name := "Big Fan"
	updated, err := svc.Update(ctx, "u1", UserPatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Big Fan", updated.DisplayName)
	assert.Equal(t, "JP", updated.Nationality)
	assert.Equal(t, []string{"147"}, []string(updated.TeamsFollowing))

	require.NoError(t, svc.Delete(ctx, "u1"))
	_, err = svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserServiceFollow(t *testing.T) {
	svc := NewUserService(newTestStore(t), time.Second)
	ctx := context.Background()
	_, err := svc.Create(ctx, "u1", UserInput{Email: "u1@x.com"})
	require.NoError(t, err)

	u, err := svc.FollowTeam(ctx, "u1", "147")
	require.NoError(t, err)
	u, err = svc.FollowTeam(ctx, "u1", "147")
	require.NoError(t, err)
	assert.Equal(t, []string{"147"}, []string(u.TeamsFollowing))

	u, err = svc.FollowPlayer(ctx, "u1", "592450")
	require.NoError(t, err)
	u, err = svc.FollowPlayer(ctx, "u1", "660271")
	require.NoError(t, err)
	assert.Equal(t, []string{"592450", "660271"}, []string(u.PlayersFollowing))

	u, err = svc.UnfollowPlayer(ctx, "u1", "592450")
	require.NoError(t, err)
	assert.Equal(t, []string{"660271"}, []string(u.PlayersFollowing))

	u, err = svc.UnfollowTeam(ctx, "u1", "999")
	require.NoError(t, err)
	assert.Equal(t, []string{"147"}, []string(u.TeamsFollowing))

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"147"}, []string(got.TeamsFollowing))
	assert.Equal(t, []string{"660271"}, []string(got.PlayersFollowing))

	_, err = svc.FollowTeam(ctx, "ghost", "147")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
