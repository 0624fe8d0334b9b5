package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	PreferenceRepo   *repository.PreferenceRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, preferenceRepo *repository.PreferenceRepository) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		PreferenceRepo:   preferenceRepo,
	}
}

func (s *NotificationService) List(userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	return s.NotificationRepo.ListByUser(userID, unreadOnly, page, limit)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	n, err := s.NotificationRepo.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNotificationMissing
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.NotificationRepo.MarkAllRead(userID)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotificationRepo.UnreadCount(userID)
}

func (s *NotificationService) Notify(userID uint, notificationType, title, message, actionURL string) (*model.Notification, error) {
	n := &model.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		ActionURL:        actionURL,
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) GetPreferences(userID uint) (*model.Preference, error) {
	return s.PreferenceRepo.FindOrCreate(userID)
}

// PreferenceInput 偏好设置，未传字段保持不变
type PreferenceInput struct {
	EmailNotifications       *bool   `json:"emailNotifications"`
	PushNotifications        *bool   `json:"pushNotifications"`
	StudyReminders           *bool   `json:"studyReminders"`
	AchievementNotifications *bool   `json:"achievementNotifications"`
	WeeklyProgressReports    *bool   `json:"weeklyProgressReports"`
	DarkMode                 *bool   `json:"darkMode"`
	Language                 *string `json:"language" binding:"omitempty,max=10"`
	Timezone                 *string `json:"timezone" binding:"omitempty,max=50"`
}

func (s *NotificationService) UpdatePreferences(userID uint, in *PreferenceInput) (*model.Preference, error) {
	pref, err := s.PreferenceRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}

	pref.EmailNotifications = boolOr(in.EmailNotifications, pref.EmailNotifications)
	pref.PushNotifications = boolOr(in.PushNotifications, pref.PushNotifications)
	pref.StudyReminders = boolOr(in.StudyReminders, pref.StudyReminders)
	pref.AchievementNotifications = boolOr(in.AchievementNotifications, pref.AchievementNotifications)
	pref.WeeklyProgressReports = boolOr(in.WeeklyProgressReports, pref.WeeklyProgressReports)
	pref.DarkMode = boolOr(in.DarkMode, pref.DarkMode)
	if in.Language != nil && *in.Language != "" {
		pref.Language = *in.Language
	}
	if in.Timezone != nil && *in.Timezone != "" {
		if _, err := loadLocation(*in.Timezone); err != nil {
			return nil, invalidf("unknown timezone %q", *in.Timezone)
		}
		pref.Timezone = *in.Timezone
	}

	if err := s.PreferenceRepo.Save(pref); err != nil {
		return nil, err
	}
	return pref, nil
}
