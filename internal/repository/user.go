package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"MindTrack/internal/model"
	"MindTrack/internal/wellness"
)

// UserRepository 用户数据访问
type UserRepository interface {
	FindByPublicID(ctx context.Context, publicID int64) (*model.User, error)
	SaveProfile(ctx context.Context, u *model.User) error
	CompareAndSetStreak(ctx context.Context, publicID int64, expectedLast *string, next wellness.StreakState) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByPublicID 强制走主库，打卡链路需要读到最新的连续天数
func (r *userRepository) FindByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("public_id = ?", publicID).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// SaveProfile 不存在时创建，存在时只更新资料字段，不会触碰连续打卡状态
func (r *userRepository) SaveProfile(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("public_id = ?", u.PublicID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(u).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"username":   u.Username,
			"email":      u.Email,
			"full_name":  u.FullName,
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
			return err
		}

		existing.Username = u.Username
		existing.Email = u.Email
		existing.FullName = u.FullName
		*u = existing
		return nil
	}))
}

// CompareAndSetStreak 只有当 last_checkin_date 仍等于 expectedLast 时才写入，返回是否写入成功
func (r *userRepository) CompareAndSetStreak(ctx context.Context, publicID int64, expectedLast *string, next wellness.StreakState) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("public_id = ?", publicID)
	if expectedLast == nil {
		q = q.Where("last_checkin_date IS NULL")
	} else {
		q = q.Where("last_checkin_date = ?", *expectedLast)
	}

	res := q.Updates(map[string]interface{}{
		"streak":            next.Streak,
		"last_checkin_date": next.LastCheckinDay,
		"updated_at":        time.Now().UTC(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
