package repository

import (
	"context"
	"fmt"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// SubscriptionRepository manages follower -> author rows. Like the recipe
// relations, Create leaves gorm.ErrDuplicatedKey to the service and Delete
// reports rows affected.
type SubscriptionRepository interface {
	Create(ctx context.Context, userID, authorID string) error
	Delete(ctx context.Context, userID, authorID string) (int64, error)
	Exists(ctx context.Context, userID, authorID string) (bool, error)
	SubscribedSet(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error)
	ListAuthors(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, userID, authorID string) error {
	sub := &models.Subscription{UserID: userID, AuthorID: authorID}
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, userID, authorID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete subscription: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SubscribedSet reports which of the given authors the user follows, in one
// query for list rendering.
func (r *subscriptionRepository) SubscribedSet(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(authorIDs))
	if userID == "" || len(authorIDs) == 0 {
		return set, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// ListAuthors returns the users the given user follows, paginated, ordered
// by username like every other user listing.
func (r *subscriptionRepository) ListAuthors(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error) {
	var authors []models.User
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Order("users.username asc").
		Limit(pageSize).
		Offset(offset).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, total, nil
}
