package repository

import (
	"context"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	return writeError(r.db.WithContext(ctx).Create(m).Error)
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return message.Message{}, readError(err)
	}
	return m, nil
}

// MarkRead always writes the flag, even when it is already set.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return courier_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) GetThreadMessages(ctx context.Context, threadID uuid.UUID, page Page) ([]message.Message, int64, error) {
	var messages []message.Message
	var total int64

	q := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&message.Message{}).
			Where("thread_id = ?", threadID)
	}

	if err := q().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q().
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// CountUnreadForUser counts unread messages written by someone else in any
// thread the user participates in.
func (r *PostgresMessageRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64

	subQuery := r.db.Model(&thread.Participant{}).
		Select("thread_id").
		Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("is_read = ? AND sender_id <> ? AND thread_id IN (?)", false, userID, subQuery).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) DeleteByThread(ctx context.Context, threadID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Delete(&message.Message{})
	return res.RowsAffected, res.Error
}
