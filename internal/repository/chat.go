package repository

import (
	"context"

	"gorm.io/gorm"

	"MindTrack/internal/model"
)

// ChatRepository 对话历史数据访问
type ChatRepository interface {
	Append(ctx context.Context, msgs ...*model.ChatMessage) error
	Recent(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error)
	List(ctx context.Context, userID int64) ([]model.ChatMessage, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Append 同一轮的用户消息和回复在一个事务内写入
func (r *chatRepository) Append(ctx context.Context, msgs ...*model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range msgs {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent 返回最近 limit 条消息，按时间正序
func (r *chatRepository) Recent(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepository) List(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ChatMessage{})
	return res.RowsAffected, res.Error
}
