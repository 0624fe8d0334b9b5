package repository

import (
	"physics_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) WithTx(tx *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: tx}
}

// FindOrCreate 按需创建学习统计记录
func (r *AnalyticsRepository) FindOrCreate(userID uint) (*model.LearningAnalytics, error) {
	var a model.LearningAnalytics
	if err := r.DB.Where("user_id = ?", userID).Limit(1).Find(&a).Error; err != nil {
		return nil, err
	}
	if a.ID != 0 {
		return &a, nil
	}

	a = model.LearningAnalytics{UserID: userID, LastUpdated: time.Now()}
	if err := r.DB.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalyticsRepository) Save(a *model.LearningAnalytics) error {
	return r.DB.Save(a).Error
}

// AnalyticsRow 报表行
type AnalyticsRow struct {
	model.LearningAnalytics
	UserName  string
	UserEmail string
}

func (r *AnalyticsRepository) ListWithUsers() ([]AnalyticsRow, error) {
	var rows []AnalyticsRow
	err := r.DB.Table("learning_analytics").
		Select("learning_analytics.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = learning_analytics.user_id").
		Where("learning_analytics.deleted_at IS NULL AND users.deleted_at IS NULL").
		Order("users.name ASC, users.id ASC").
		Scan(&rows).Error
	return rows, err
}
