package services

import (
	"context"
	"errors"
	"fmt"

	"liftlog/db"
	"liftlog/models"

	"gorm.io/gorm"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrUserNotFound     = errors.New("user not found")
)

type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow creates the edge follower -> target. Invalidates the target's
// follower-count cache and both parties' profile caches; cached feed pages
// are left to expire (membership changes apply on the next uncached fetch).
func (fs *FollowService) Follow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("id = ?", targetID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("error checking target user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}

	var existing models.Follow
	err = db.GetReadOnlyDB(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyFollowing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking follow edge: %w", err)
	}

	edge := &models.Follow{FollowerID: followerID, FollowingID: targetID}
	if err := db.GetWriteDB(ctx).Create(edge).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	fs.invalidateFollowCaches(ctx, followerID, targetID)
	return nil
}

// Unfollow removes the edge follower -> target with the same invalidation
// as Follow.
func (fs *FollowService) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	res := db.GetWriteDB(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}

	fs.invalidateFollowCaches(ctx, followerID, targetID)
	return nil
}

func (fs *FollowService) invalidateFollowCaches(ctx context.Context, followerID, targetID int64) {
	CacheDel(ctx,
		FollowersCacheKey(targetID),
		ProfileCacheKey(targetID),
		ProfileCacheKey(followerID),
	)
}

// FollowingIDs resolves the requester's outbound edges, i.e. feed
// membership.
func (fs *FollowService) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}
	return ids, nil
}

// FollowerIDs resolves inbound edges: the users whose feeds include userID.
func (fs *FollowService) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get follower ids: %w", err)
	}
	return ids, nil
}

// FollowerCount serves the count through the followers:{id} cache entry.
func (fs *FollowService) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	key := FollowersCacheKey(userID)

	var cached int64
	if err := CacheGet(ctx, key, &cached); err == nil {
		return cached, nil
	}

	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}

	CacheSet(ctx, key, count, FollowersCacheTTL)
	return count, nil
}

func (fs *FollowService) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}

// IsFollowing reports whether the edge follower -> target exists.
func (fs *FollowService) IsFollowing(ctx context.Context, followerID, targetID int64) (bool, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}
