package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model LearningAnalytics
type LearningAnalytics struct {
	BaseModel
	UserID              uint           `gorm:"uniqueIndex;not null" json:"userId"`
	TotalStudyTime      int            `gorm:"default:0" json:"totalStudyTime"` // 分钟
	TopicsCompleted     int            `gorm:"default:0" json:"topicsCompleted"`
	QuizzesTaken        int            `gorm:"default:0" json:"quizzesTaken"`
	QuizzesPassed       int            `gorm:"default:0" json:"quizzesPassed"`
	SimulationsExplored int            `gorm:"default:0" json:"simulationsExplored"`
	CurrentStreak       int            `gorm:"default:0" json:"currentStreak"`
	LongestStreak       int            `gorm:"default:0" json:"longestStreak"`
	AverageQuizScore    float64        `gorm:"default:0" json:"averageQuizScore"`
	BestQuizScore       float64        `gorm:"default:0" json:"bestQuizScore"`
	FavoriteTopics      datatypes.JSON `json:"favoriteTopics,omitempty"`
	LearningVelocity    float64        `gorm:"default:0" json:"learningVelocity"`
	LastActivityDate    *time.Time     `json:"lastActivityDate,omitempty"`
	LastUpdated         time.Time      `json:"lastUpdated"`
}

func (LearningAnalytics) TableName() string {
	return "learning_analytics"
}
