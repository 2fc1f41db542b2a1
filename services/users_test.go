package services

import (
	"context"
	"testing"

	"liftlog/db"
	"liftlog/models"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	id, err := us.Register(ctx, &models.User{Nickname: "lifter", Name: "Lifter", Password: "hunter22"})
	require.NoError(t, err)
	require.NotZero(t, id)

	token, userID, err := us.Login(ctx, "lifter", "hunter22")
	require.NoError(t, err)
	require.Equal(t, id, userID)
	require.NotEmpty(t, token)

	resolved, err := us.UserIDByToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, id, resolved)
}

func TestRegisterDuplicateNickname(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	_, err := us.Register(ctx, &models.User{Nickname: "taken", Name: "First", Password: "pw1"})
	require.NoError(t, err)
	_, err = us.Register(ctx, &models.User{Nickname: "taken", Name: "Second", Password: "pw2"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	_, err := us.Register(ctx, &models.User{Nickname: "lifter", Name: "Lifter", Password: "correct"})
	require.NoError(t, err)

	_, _, err = us.Login(ctx, "lifter", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = us.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginReplacesToken(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	_, err := us.Register(ctx, &models.User{Nickname: "lifter", Name: "Lifter", Password: "pw"})
	require.NoError(t, err)

	first, _, err := us.Login(ctx, "lifter", "pw")
	require.NoError(t, err)
	second, _, err := us.Login(ctx, "lifter", "pw")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = us.UserIDByToken(ctx, first)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = us.UserIDByToken(ctx, second)
	require.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	_, err := us.Register(ctx, &models.User{Nickname: "lifter", Name: "Lifter", Password: "pw"})
	require.NoError(t, err)
	token, userID, err := us.Login(ctx, "lifter", "pw")
	require.NoError(t, err)

	require.NoError(t, us.Logout(ctx, userID))
	_, err = us.UserIDByToken(ctx, token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordStoredHashed(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	id, err := us.Register(ctx, &models.User{Nickname: "lifter", Name: "Lifter", Password: "plaintext"})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.ORM.First(&user, id).Error)
	require.NotEqual(t, "plaintext", user.Password)
	require.Contains(t, user.Password, "$")
}

func TestProfileCounts(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	carol := createTestUser(t, "Carol")
	createTestFollow(t, bob.ID, alice.ID)
	createTestFollow(t, carol.ID, alice.ID)
	createTestFollow(t, alice.ID, bob.ID)

	us := NewUserService()
	profile, err := us.Profile(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.Nickname, profile.Nickname)
	require.Equal(t, int64(2), profile.FollowerCount)
	require.Equal(t, int64(1), profile.FollowingCount)
}

func TestProfileNotFound(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	_, err := us.Profile(ctx, 999999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileInvalidatesCaches(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	ctx := context.Background()

	author := createTestUser(t, "Author")
	follower := createTestUser(t, "Follower")
	createTestFollow(t, follower.ID, author.ID)
	createCompletedWorkout(t, author.ID, "Session", feedDate(1))

	us := NewUserService()
	feed := NewFeedService()

	_, err := us.Profile(ctx, author.ID)
	require.NoError(t, err)
	_, err = feed.GetFeed(ctx, follower.ID, 10, nil)
	require.NoError(t, err)
	require.True(t, mr.Exists(ProfileCacheKey(author.ID)))
	require.True(t, mr.Exists(FeedCacheKey(follower.ID, nil)))

	updated, err := us.UpdateProfile(ctx, author.ID, ProfileUpdate{Name: strPtr("Renamed")})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	// Feed pages embed the author's name, so they go too.
	require.False(t, mr.Exists(ProfileCacheKey(author.ID)))
	require.False(t, mr.Exists(FeedCacheKey(follower.ID, nil)))

	page, err := feed.GetFeed(ctx, follower.ID, 10, nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Renamed", page.Items[0].User.Name)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()
	_, err := us.UpdateProfile(ctx, 999999, ProfileUpdate{Name: strPtr("Ghost")})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSearchAnnotatesFollowStatus(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	me := createTestUser(t, "Searcher Sam")
	friend := createTestUser(t, "Sam Friend")
	stranger := createTestUser(t, "Sam Stranger")
	createTestFollow(t, me.ID, friend.ID)

	us := NewUserService()
	results, err := us.Search(ctx, me.ID, "Sam", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[int64]models.UserSearchResult{}
	for _, r := range results {
		// The requester never appears in their own results.
		require.NotEqual(t, me.ID, r.ID)
		byID[r.ID] = r
	}
	require.True(t, byID[friend.ID].IsFollowing)
	require.False(t, byID[stranger.ID].IsFollowing)
}

func TestSearchEmptyQuery(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	me := createTestUser(t, "Sam")
	us := NewUserService()
	results, err := us.Search(ctx, me.ID, "", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}
