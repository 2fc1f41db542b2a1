package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"liftlog/db"
	"liftlog/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

var userSeq int64

// setupTestDB gives the test a fresh database and no cache backend.
func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, db.ConnectTestDB())
	RedisClient = nil
}

// setupTestRedis additionally wires the cache layer to an in-process Redis.
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		RedisClient = nil
	})
	return mr
}

func createTestUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Nickname: fmt.Sprintf("user_%d", atomic.AddInt64(&userSeq, 1)),
		Name:     name,
		Password: "x",
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestFollow(t *testing.T, followerID, followingID int64) {
	t.Helper()
	require.NoError(t, db.ORM.Create(&models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}).Error)
}

func createTestExercise(t *testing.T, name string) *models.Exercise {
	t.Helper()
	ex := &models.Exercise{Name: name, MuscleGroup: "legs", Equipment: "barbell"}
	require.NoError(t, db.ORM.Create(ex).Error)
	return ex
}

// createCompletedWorkout inserts one completed workout on a given date with
// a single working set.
func createCompletedWorkout(t *testing.T, userID int64, name string, date time.Time) *models.Workout {
	t.Helper()
	workout := &models.Workout{
		UserID:      userID,
		Name:        name,
		Date:        date,
		IsCompleted: true,
	}
	require.NoError(t, db.ORM.Create(workout).Error)
	return workout
}
