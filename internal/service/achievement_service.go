package service

import (
	"errors"
	"fmt"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AchievementService struct {
	AchievementRepo  *repository.AchievementRepository
	UserRepo         *repository.UserRepository
	PreferenceRepo   *repository.PreferenceRepository
	NotificationRepo *repository.NotificationRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	preferenceRepo *repository.PreferenceRepository,
	notificationRepo *repository.NotificationRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo:  achievementRepo,
		UserRepo:         userRepo,
		PreferenceRepo:   preferenceRepo,
		NotificationRepo: notificationRepo,
	}
}

// Evaluate 根据最新统计发放成就，每个成就每个用户至多一次
func (s *AchievementService) Evaluate(tx *gorm.DB, userID uint, a *model.LearningAnalytics, now time.Time) ([]model.Achievement, error) {
	achRepo := s.AchievementRepo.WithTx(tx)
	candidates, err := achRepo.List(true)
	if err != nil {
		return nil, err
	}
	earned, err := achRepo.EarnedIDs(userID)
	if err != nil {
		return nil, err
	}

	stats := CriteriaStats(a)
	var awarded []model.Achievement
	for _, ach := range candidates {
		if earned[ach.ID] {
			continue
		}
		criteria, err := ParseCriteria(ach.Criteria)
		if err != nil {
			logger.Log.Warn("invalid achievement criteria", zap.Uint("achievementID", ach.ID), zap.Error(err))
			continue
		}
		if !CriteriaMet(criteria, stats) {
			continue
		}

		created, err := achRepo.Award(userID, ach.ID, now)
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}
		if ach.Points > 0 {
			if err := s.UserRepo.WithTx(tx).AddXP(userID, ach.Points); err != nil {
				return nil, err
			}
		}
		if err := s.notifyAward(tx, userID, &ach); err != nil {
			return nil, err
		}
		awarded = append(awarded, ach)
	}
	return awarded, nil
}

func (s *AchievementService) notifyAward(tx *gorm.DB, userID uint, ach *model.Achievement) error {
	pref, err := s.PreferenceRepo.WithTx(tx).FindOrCreate(userID)
	if err != nil {
		return err
	}
	if !pref.AchievementNotifications {
		return nil
	}
	return s.NotificationRepo.WithTx(tx).Create(&model.Notification{
		UserID:           userID,
		NotificationType: model.NotificationAchievement,
		Title:            fmt.Sprintf("Achievement unlocked: %s", ach.Name),
		Message:          fmt.Sprintf("%s (+%d XP)", ach.Description, ach.Points),
		ActionURL:        "/achievements",
	})
}

// ObserveAwards 事务提交后记录指标
func ObserveAwards(awarded []model.Achievement) {
	for _, a := range awarded {
		monitoring.AchievementsAwarded.WithLabelValues(a.Name).Inc()
		logger.Log.Info("achievement awarded", zap.String("achievement", a.Name))
	}
}

// AchievementView 成就列表项
type AchievementView struct {
	model.Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
}

// ListForUser 全部启用成就并标记已获得
func (s *AchievementService) ListForUser(userID uint) ([]AchievementView, error) {
	all, err := s.AchievementRepo.List(true)
	if err != nil {
		return nil, err
	}
	mine, err := s.AchievementRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[uint]time.Time, len(mine))
	for _, ua := range mine {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	views := make([]AchievementView, 0, len(all))
	for _, a := range all {
		v := AchievementView{Achievement: a}
		if at, ok := earnedAt[a.ID]; ok {
			v.Earned = true
			v.EarnedAt = &at
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *AchievementService) UserAchievements(userID uint) ([]model.UserAchievement, error) {
	return s.AchievementRepo.FindByUserID(userID)
}

// AchievementInput 后台创建/更新成就
type AchievementInput struct {
	Name            string             `json:"name" binding:"required,max=100"`
	Description     string             `json:"description"`
	AchievementType string             `json:"achievementType" binding:"required"`
	Icon            string             `json:"icon"`
	Criteria        map[string]float64 `json:"criteria" binding:"required"`
	Points          int                `json:"points" binding:"min=0"`
	IsActive        *bool              `json:"isActive"`
}

func (in *AchievementInput) apply(a *model.Achievement) error {
	if !model.ValidAchievementType(in.AchievementType) {
		return fmt.Errorf("%w: achievement type %q", util.ErrInvalidParameter, in.AchievementType)
	}
	if !ValidCriteria(in.Criteria) {
		return fmt.Errorf("%w: criteria keys must be known metrics", util.ErrInvalidParameter)
	}
	raw, err := jsonBytes(in.Criteria)
	if err != nil {
		return err
	}
	a.Name = in.Name
	a.Description = in.Description
	a.AchievementType = in.AchievementType
	a.Icon = in.Icon
	a.Criteria = datatypes.JSON(raw)
	a.Points = in.Points
	a.IsActive = boolOr(in.IsActive, true)
	return nil
}

func (s *AchievementService) ListAll() ([]model.Achievement, error) {
	return s.AchievementRepo.List(false)
}

func (s *AchievementService) Create(in *AchievementInput) (*model.Achievement, error) {
	a := &model.Achievement{}
	if err := in.apply(a); err != nil {
		return nil, err
	}
	if err := s.AchievementRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AchievementService) Update(id uint, in *AchievementInput) (*model.Achievement, error) {
	a, err := s.AchievementRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrAchievementNotFound)
	}
	if err := in.apply(a); err != nil {
		return nil, err
	}
	if err := s.AchievementRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AchievementService) Delete(id uint) error {
	n, err := s.AchievementRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrAchievementNotFound
	}
	return nil
}

// notFound 将 gorm 未找到错误转换为业务错误
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
