package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"liftlog/db"
	"liftlog/models"

	"gorm.io/gorm"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
)

type FeedService struct {
	follows *FollowService
}

func NewFeedService() *FeedService {
	return &FeedService{follows: NewFollowService()}
}

// GetFeed returns one reverse-chronological page of completed workouts from
// the users that userID follows. Pages are keyset-paginated: the cursor is
// the id of the last item of the previous page, and rows are ordered by
// (date DESC, id DESC) so the ordering stays stable under concurrent
// inserts. The page is served read-through from the feed:{user}:{cursor}
// cache entry.
func (s *FeedService) GetFeed(ctx context.Context, userID int64, limit int, cursor *int64) (*models.FeedResponse, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	cacheKey := FeedCacheKey(userID, cursor)

	var cached models.FeedResponse
	if err := CacheGet(ctx, cacheKey, &cached); err == nil {
		feedCacheHits.Inc()
		return &cached, nil
	}
	feedCacheMisses.Inc()

	followingIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Nothing followed: trivially fast, not worth caching.
	if len(followingIDs) == 0 {
		return &models.FeedResponse{Items: []models.FeedItem{}, NextCursor: nil}, nil
	}

	query := db.GetReadOnlyDB(ctx).
		Model(&models.Workout{}).
		Where("user_id IN ? AND is_completed = ?", followingIDs, true)

	if cursor != nil {
		var bound models.Workout
		err := db.GetReadOnlyDB(ctx).Select("id", "date").First(&bound, *cursor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Cursor row was deleted since the previous page; restart from
			// the top rather than failing the request.
			cursor = nil
		} else if err != nil {
			return nil, fmt.Errorf("failed to resolve cursor: %w", err)
		} else {
			query = query.Where("(date < ?) OR (date = ? AND id < ?)", bound.Date, bound.Date, bound.ID)
		}
	}

	var workouts []models.Workout
	err = query.
		Order("date DESC, id DESC").
		Limit(limit + 1).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", func(tx *gorm.DB) *gorm.DB { return tx.Order("set_number ASC") }).
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feed workouts: %w", err)
	}

	// Fetched one extra row to detect whether another page exists.
	var nextCursor *int64
	if len(workouts) > limit {
		workouts = workouts[:limit]
		last := workouts[len(workouts)-1].ID
		nextCursor = &last
	}

	authors, err := s.loadAuthors(ctx, workouts)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(workouts))
	for _, w := range workouts {
		items = append(items, models.FeedItem{Workout: w, User: authors[w.UserID]})
	}

	response := &models.FeedResponse{Items: items, NextCursor: nextCursor}
	CacheSet(ctx, cacheKey, response, FeedCacheTTL)

	return response, nil
}

func (s *FeedService) loadAuthors(ctx context.Context, workouts []models.Workout) (map[int64]models.FeedAuthor, error) {
	authors := make(map[int64]models.FeedAuthor, len(workouts))
	if len(workouts) == 0 {
		return authors, nil
	}

	idSet := make(map[int64]struct{}, len(workouts))
	ids := make([]int64, 0, len(workouts))
	for _, w := range workouts {
		if _, ok := idSet[w.UserID]; !ok {
			idSet[w.UserID] = struct{}{}
			ids = append(ids, w.UserID)
		}
	}

	var users []models.User
	if err := db.GetReadOnlyDB(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load feed authors: %w", err)
	}
	for _, u := range users {
		authors[u.ID] = models.FeedAuthor{ID: u.ID, Name: u.Name, Image: u.Image}
	}
	return authors, nil
}

// InvalidateFeedForFollowers drops every cached feed page of every follower
// of userID. Called when the user's denormalized display fields change.
func (s *FeedService) InvalidateFeedForFollowers(ctx context.Context, userID int64) {
	followerIDs, err := s.follows.FollowerIDs(ctx, userID)
	if err != nil {
		log.Printf("feed invalidation: failed to resolve followers of %d: %v", userID, err)
		return
	}
	for _, id := range followerIDs {
		CacheDelPattern(ctx, feedCacheKeyPattern(id))
	}
}

// InvalidateFeed drops one user's own cached feed pages.
func (s *FeedService) InvalidateFeed(ctx context.Context, userID int64) {
	CacheDelPattern(ctx, feedCacheKeyPattern(userID))
}
