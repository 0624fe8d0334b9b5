package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusMastered   = "mastered"
)

// swagger:model TopicProgress
type TopicProgress struct {
	BaseModel
	UserID             uint       `gorm:"uniqueIndex:idx_progress_user_topic;not null" json:"userId"`
	TopicID            uint       `gorm:"uniqueIndex:idx_progress_user_topic;not null" json:"topicId"`
	Status             string     `gorm:"size:20;default:'not_started'" json:"status"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	TimeSpent          int        `gorm:"default:0" json:"timeSpent"` // 分钟
	UnderstandingLevel int        `gorm:"default:1" json:"understandingLevel"`
	Notes              string     `gorm:"type:text" json:"notes"`
	LastAccessed       time.Time  `json:"lastAccessed"`

	Topic *Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}

func (TopicProgress) TableName() string {
	return "topic_progress"
}

// IsFinished 已完成或已掌握
func (p *TopicProgress) IsFinished() bool {
	return p.Status == StatusCompleted || p.Status == StatusMastered
}

// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"not null" json:"isActive"`

	Topics []Topic `gorm:"many2many:learning_path_topics" json:"topics,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

const (
	SessionTopicStudy            = "topic_study"
	SessionQuizPractice          = "quiz_practice"
	SessionSimulationExploration = "simulation_exploration"
	SessionReview                = "review"
)

func ValidSessionType(t string) bool {
	switch t {
	case SessionTopicStudy, SessionQuizPractice, SessionSimulationExploration, SessionReview:
		return true
	}
	return false
}

// swagger:model StudySession
type StudySession struct {
	BaseModel
	UserID              uint           `gorm:"index;not null" json:"userId"`
	SessionType         string         `gorm:"size:30;not null" json:"sessionType"`
	TopicID             *uint          `gorm:"index" json:"topicId,omitempty"`
	StartedAt           time.Time      `json:"startedAt"`
	EndedAt             *time.Time     `json:"endedAt,omitempty"`
	Duration            int            `gorm:"default:0" json:"duration"` // 分钟
	ActivitiesCompleted datatypes.JSON `json:"activitiesCompleted,omitempty"`
	ConceptsLearned     string         `gorm:"type:text" json:"conceptsLearned"`
	QuestionsAsked      string         `gorm:"type:text" json:"questionsAsked"`
	SatisfactionRating  *int           `json:"satisfactionRating,omitempty"`

	Topic *Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}
