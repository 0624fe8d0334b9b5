package model

const (
	NotificationAchievement       = "achievement"
	NotificationReminder          = "reminder"
	NotificationQuizDue           = "quiz_due"
	NotificationNewContent        = "new_content"
	NotificationProgressMilestone = "progress_milestone"
	NotificationSystem            = "system"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID           uint   `gorm:"index;not null" json:"userId"`
	NotificationType string `gorm:"size:30;not null" json:"notificationType"`
	Title            string `gorm:"size:200;not null" json:"title"`
	Message          string `gorm:"type:text" json:"message"`
	IsRead           bool   `gorm:"default:false;index" json:"isRead"`
	ActionURL        string `gorm:"size:500" json:"actionUrl,omitempty"`
}

func (Notification) TableName() string {
	return "user_notifications"
}

type Preference struct {
	BaseModel
	UserID                   uint   `gorm:"uniqueIndex;not null" json:"userId"`
	EmailNotifications       bool   `gorm:"not null" json:"emailNotifications"`
	PushNotifications        bool   `gorm:"not null" json:"pushNotifications"`
	StudyReminders           bool   `gorm:"not null" json:"studyReminders"`
	AchievementNotifications bool   `gorm:"not null" json:"achievementNotifications"`
	WeeklyProgressReports    bool   `gorm:"not null" json:"weeklyProgressReports"`
	DarkMode                 bool   `gorm:"default:false" json:"darkMode"`
	Language                 string `gorm:"size:10;default:'en'" json:"language"`
	Timezone                 string `gorm:"size:50;default:'UTC'" json:"timezone"`
}

func (Preference) TableName() string {
	return "user_preferences"
}

// DefaultPreference 新用户默认偏好
func DefaultPreference(userID uint) *Preference {
	return &Preference{
		UserID:                   userID,
		EmailNotifications:       true,
		PushNotifications:        true,
		StudyReminders:           true,
		AchievementNotifications: true,
		WeeklyProgressReports:    true,
		Language:                 "en",
		Timezone:                 "UTC",
	}
}
