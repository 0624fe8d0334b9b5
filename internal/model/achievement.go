package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AchievementTopicCompletion    = "topic_completion"
	AchievementQuizMastery        = "quiz_mastery"
	AchievementSimulationExplorer = "simulation_explorer"
	AchievementStreak             = "streak"
	AchievementSpeedLearner       = "speed_learner"
	AchievementPerfectionist      = "perfectionist"
)

func ValidAchievementType(t string) bool {
	switch t {
	case AchievementTopicCompletion, AchievementQuizMastery, AchievementSimulationExplorer,
		AchievementStreak, AchievementSpeedLearner, AchievementPerfectionist:
		return true
	}
	return false
}

// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name            string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	AchievementType string         `gorm:"size:30;not null" json:"achievementType"`
	Icon            string         `gorm:"size:100" json:"icon"`
	Criteria        datatypes.JSON `json:"criteria"` // 阈值映射，如 {"topics_completed": 1}
	Points          int            `gorm:"default:10" json:"points"`
	IsActive        bool           `gorm:"not null" json:"isActive"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// swagger:model UserAchievement
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	EarnedAt      time.Time `json:"earnedAt"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
