package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"liftlog/db"
	"liftlog/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyToken         = errors.New("token is empty")
)

type UserService struct {
	follows *FollowService
	feed    *FeedService
}

func NewUserService() *UserService {
	return &UserService{follows: NewFollowService(), feed: NewFeedService()}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register creates a user with an argon2id password hash.
func (us *UserService) Register(ctx context.Context, user *models.User) (int64, error) {
	var exists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("nickname = ?", user.Nickname).Count(&exists).Error
	if err != nil {
		return 0, fmt.Errorf("error checking nickname: %w", err)
	}
	if exists > 0 {
		return 0, ErrUserExists
	}

	hashed, err := hashPassword(user.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed

	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// Login verifies the password and issues a fresh session token, replacing
// any previous one for the user.
func (us *UserService) Login(ctx context.Context, nickname, password string) (string, int64, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("nickname = ?", nickname).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", 0, ErrInvalidCredentials
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to load user: %w", err)
	}

	if !verifyPassword(user.Password, password) {
		return "", 0, ErrInvalidCredentials
	}

	if err := us.Logout(ctx, user.ID); err != nil {
		return "", 0, err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", 0, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Create(&models.UserTokens{UserID: user.ID, Token: token}).Error
	if err != nil {
		return "", 0, fmt.Errorf("failed to store token: %w", err)
	}
	return token, user.ID, nil
}

// Logout drops every session token of the user.
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	err := db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserTokens{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

// UserIDByToken resolves a session token to a user id.
func (us *UserService) UserIDByToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrEmptyToken
	}
	var row models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	return row.UserID, nil
}

// Profile serves the public view through the profile:{id} cache entry,
// with follower/following counts attached.
func (us *UserService) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	key := ProfileCacheKey(userID)

	var cached models.UserProfile
	if err := CacheGet(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	followerCount, err := us.follows.FollowerCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	followingCount, err := us.follows.FollowingCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:             user.ID,
		Nickname:       user.Nickname,
		Name:           user.Name,
		Bio:            user.Bio,
		Image:          user.Image,
		Character:      user.Character,
		WorkoutCount:   user.WorkoutCount,
		Streak:         user.Streak,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}

	CacheSet(ctx, key, profile, ProfileCacheTTL)
	return profile, nil
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Character *string `json:"character"`
	Image     *string `json:"image"`
}

// UpdateProfile applies the patch and invalidates the user's profile cache
// plus every follower's cached feed pages, since feed items denormalize the
// author's display fields.
func (us *UserService) UpdateProfile(ctx context.Context, userID int64, patch ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.Character != nil {
		updates["character"] = *patch.Character
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}

	if len(updates) > 0 {
		res := db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}

	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	CacheDel(ctx, ProfileCacheKey(userID))
	us.feed.InvalidateFeedForFollowers(ctx, userID)

	return &user, nil
}

// Search matches display names by substring, excluding the requester, and
// annotates each hit with the requester's follow status.
func (us *UserService) Search(ctx context.Context, requesterID int64, query string, limit int) ([]models.UserSearchResult, error) {
	if query == "" {
		return []models.UserSearchResult{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Where("name LIKE ? AND id != ?", "%"+query+"%", requesterID).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	followed := map[int64]struct{}{}
	if len(ids) > 0 {
		var followingIDs []int64
		err = db.GetReadOnlyDB(ctx).
			Model(&models.Follow{}).
			Where("follower_id = ? AND following_id IN ?", requesterID, ids).
			Pluck("following_id", &followingIDs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load follow status: %w", err)
		}
		for _, id := range followingIDs {
			followed[id] = struct{}{}
		}
	}

	results := make([]models.UserSearchResult, 0, len(users))
	for _, u := range users {
		_, isFollowing := followed[u.ID]
		results = append(results, models.UserSearchResult{
			ID:          u.ID,
			Nickname:    u.Nickname,
			Name:        u.Name,
			Bio:         u.Bio,
			Image:       u.Image,
			IsFollowing: isFollowing,
		})
	}
	return results, nil
}
