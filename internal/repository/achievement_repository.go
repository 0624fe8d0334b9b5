package repository

import (
	"physics_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) WithTx(tx *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: tx}
}

func (r *AchievementRepository) List(activeOnly bool) ([]model.Achievement, error) {
	query := r.DB.Model(&model.Achievement{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var list []model.Achievement
	err := query.Order("points ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *AchievementRepository) FindByID(id uint) (*model.Achievement, error) {
	var a model.Achievement
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AchievementRepository) Create(a *model.Achievement) error {
	return r.DB.Create(a).Error
}

func (r *AchievementRepository) Update(a *model.Achievement) error {
	return r.DB.Save(a).Error
}

func (r *AchievementRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Achievement{}, id)
	return res.RowsAffected, res.Error
}

// EarnedIDs 用户已获得的成就 ID
func (r *AchievementRepository) EarnedIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	earned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

// Award 插入用户成就，已存在时忽略；返回是否为新获得
func (r *AchievementRepository) Award(userID, achievementID uint, at time.Time) (bool, error) {
	ua := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      at,
	}
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&ua)
	return res.RowsAffected > 0, res.Error
}

// 获取指定用户的所有成就
func (r *AchievementRepository) FindByUserID(userID uint) ([]model.UserAchievement, error) {
	var list []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *AchievementRepository) RecentByUser(userID uint, limit int) ([]model.UserAchievement, error) {
	var list []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *AchievementRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAchievement{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
