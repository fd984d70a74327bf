package repository

import (
	"context"

	"courier-chat/internal/domain/thread"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &PostgresThreadRepository{db: db}
}

func (r *PostgresThreadRepository) Create(ctx context.Context, t *thread.Thread) error {
	return writeError(r.db.WithContext(ctx).Omit("Participants").Create(t).Error)
}

func (r *PostgresThreadRepository) AddParticipant(ctx context.Context, p *thread.Participant) error {
	return writeError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PostgresThreadRepository) GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error) {
	var t thread.Thread
	err := r.db.WithContext(ctx).
		Preload("Participants", orderedParticipants).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return thread.Thread{}, readError(err)
	}
	return t, nil
}

func (r *PostgresThreadRepository) GetDirectThread(ctx context.Context, userID1, userID2 uuid.UUID) (thread.Thread, error) {
	var t thread.Thread

	// Find the thread where both users are participants
	subQuery := r.db.Model(&thread.Participant{}).
		Select("thread_id").
		Where("user_id IN (?, ?)", userID1, userID2).
		Group("thread_id").
		Having("COUNT(DISTINCT user_id) = 2")

	err := r.db.WithContext(ctx).
		Preload("Participants", orderedParticipants).
		Where("id IN (?)", subQuery).
		First(&t).Error
	if err != nil {
		return thread.Thread{}, readError(err)
	}
	return t, nil
}

func (r *PostgresThreadRepository) GetByPairKey(ctx context.Context, key string) (thread.Thread, error) {
	var t thread.Thread
	err := r.db.WithContext(ctx).
		Preload("Participants", orderedParticipants).
		Where("pair_key = ?", key).
		First(&t).Error
	if err != nil {
		return thread.Thread{}, readError(err)
	}
	return t, nil
}

func (r *PostgresThreadRepository) IsParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&thread.Participant{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresThreadRepository) GetUserThreads(ctx context.Context, userID uuid.UUID, page Page) ([]thread.Thread, int64, error) {
	var threads []thread.Thread
	var total int64

	subQuery := r.db.Model(&thread.Participant{}).
		Select("thread_id").
		Where("user_id = ?", userID)

	q := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&thread.Thread{}).
			Where("id IN (?)", subQuery)
	}

	if err := q().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q().
		Preload("Participants", orderedParticipants).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&threads).Error; err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

func (r *PostgresThreadRepository) RemoveParticipants(ctx context.Context, threadID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Delete(&thread.Participant{})
	return res.RowsAffected, res.Error
}

func (r *PostgresThreadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&thread.Thread{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return courier_errors.ErrNotFound
	}
	return nil
}

// orderedParticipants keeps the participant order stable: the invited user
// is linked first, so creation order is preserved.
func orderedParticipants(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
