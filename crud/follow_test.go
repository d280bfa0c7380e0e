package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/domain"
	"warbler/errs"
)

func TestFollowLists(t *testing.T) {
	s := setupServices(t)
	u1, u2 := signupTestUsers(t, s)

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID}))

	following, err := s.Follow.FollowingOf(u1.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, u2.Username, following[0].Username)

	followers, err := s.Follow.FollowersOf(u2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, u1.Username, followers[0].Username)

	followers, err = s.Follow.FollowersOf(u1.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 0)
}

func TestDuplicateFollow(t *testing.T) {
	s := setupServices(t)
	u1, u2 := signupTestUsers(t, s)

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID}))
	err := s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	count, err := s.Follow.CountFollowing(u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSelfFollow(t *testing.T) {
	s := setupServices(t)
	u1, _ := signupTestUsers(t, s)

	err := s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u1.ID})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestFollowUnknownUser(t *testing.T) {
	s := setupServices(t)
	u1, _ := signupTestUsers(t, s)

	err := s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: 987654})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUnfollow(t *testing.T) {
	s := setupServices(t)
	u1, u2 := signupTestUsers(t, s)

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID}))
	require.NoError(t, s.Follow.Delete(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID}))

	assert.False(t, s.Follow.IsFollowing(u1.ID, u2.ID))
	count, err := s.Follow.CountFollowers(u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUnfollowNotFollowed(t *testing.T) {
	s := setupServices(t)
	u1, u2 := signupTestUsers(t, s)

	err := s.Follow.Delete(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestFollowIsOneDirectional(t *testing.T) {
	s := setupServices(t)
	u1, u2 := signupTestUsers(t, s)

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID}))

	assert.True(t, s.Follow.IsFollowing(u1.ID, u2.ID))
	assert.False(t, s.Follow.IsFollowing(u2.ID, u1.ID))
	assert.True(t, s.Follow.IsFollowedBy(u2.ID, u1.ID))
	assert.False(t, s.Follow.IsFollowedBy(u1.ID, u2.ID))
}
