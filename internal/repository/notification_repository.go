package repository

import (
	"physics_edu_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: tx}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) ListByUser(userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	query := r.DB.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Notification
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *NotificationRepository) Recent(userID uint, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// MarkRead 返回受影响行数，0 表示通知不存在或不属于该用户
func (r *NotificationRepository) MarkRead(userID, id uint) (int64, error) {
	res := r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) (int64, error) {
	res := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

type PreferenceRepository struct {
	DB *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

func (r *PreferenceRepository) WithTx(tx *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: tx}
}

// FindOrCreate 偏好设置按需创建
func (r *PreferenceRepository) FindOrCreate(userID uint) (*model.Preference, error) {
	var pref model.Preference
	err := r.DB.Where("user_id = ?", userID).Limit(1).Find(&pref).Error
	if err != nil {
		return nil, err
	}
	if pref.ID != 0 {
		return &pref, nil
	}

	created := model.DefaultPreference(userID)
	if err := r.DB.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PreferenceRepository) Save(pref *model.Preference) error {
	return r.DB.Save(pref).Error
}
