package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	TopicID            uint   `gorm:"index;not null" json:"topicId"`
	Title              string `gorm:"size:200;not null" json:"title"`
	Description        string `gorm:"type:text" json:"description"`
	Instructions       string `gorm:"type:text" json:"instructions"`
	TimeLimit          int    `gorm:"default:0" json:"timeLimit"` // 分钟，0 表示不限时
	PassingScore       int    `gorm:"not null" json:"passingScore"`
	MaxAttempts        int    `gorm:"not null" json:"maxAttempts"` // 0 表示不限次数
	IsRandomized       bool   `gorm:"not null" json:"isRandomized"`
	ShowCorrectAnswers bool   `gorm:"not null" json:"showCorrectAnswers"`
	ShowExplanations   bool   `gorm:"not null" json:"showExplanations"`
	Difficulty         string `gorm:"size:20;default:'beginner'" json:"difficulty"`
	IsActive           bool   `gorm:"not null" json:"isActive"`

	Topic     *Topic     `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionFillBlank      = "fill_blank"
	QuestionShortAnswer    = "short_answer"
	QuestionCalculation    = "calculation"
	QuestionMatching       = "matching"
	QuestionOrdering       = "ordering"
)

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionFillBlank, QuestionShortAnswer,
		QuestionCalculation, QuestionMatching, QuestionOrdering:
		return true
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint   `gorm:"index;not null" json:"quizId"`
	QuestionType string `gorm:"size:20;not null" json:"questionType"`
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	Explanation  string `gorm:"type:text" json:"explanation,omitempty"`
	Points       int    `gorm:"default:1" json:"points"`
	Order        int    `gorm:"column:sort_order;default:0" json:"order"`
	IsActive     bool   `gorm:"not null" json:"isActive"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID  uint   `gorm:"index;not null" json:"questionId"`
	AnswerText  string `gorm:"type:text;not null" json:"answerText"`
	IsCorrect   bool   `gorm:"default:false" json:"isCorrect"`
	Explanation string `gorm:"type:text" json:"explanation,omitempty"`
	Order       int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (Answer) TableName() string {
	return "answers"
}

// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex:idx_attempt_user_quiz_no;not null" json:"userId"`
	QuizID        uint       `gorm:"uniqueIndex:idx_attempt_user_quiz_no;index;not null" json:"quizId"`
	AttemptNumber int        `gorm:"uniqueIndex:idx_attempt_user_quiz_no;default:1" json:"attemptNumber"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	TimeTaken     int        `gorm:"default:0" json:"timeTaken"` // 秒
	Score         *float64   `json:"score,omitempty"`
	IsPassed      bool       `gorm:"default:false" json:"isPassed"`

	Quiz      *Quiz          `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Responses []QuizResponse `gorm:"foreignKey:AttemptID" json:"responses,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) IsCompleted() bool {
	return a.CompletedAt != nil
}

type QuizResponse struct {
	BaseModel
	AttemptID         uint                      `gorm:"uniqueIndex:idx_response_attempt_question;not null" json:"attemptId"`
	QuestionID        uint                      `gorm:"uniqueIndex:idx_response_attempt_question;not null" json:"questionId"`
	SelectedAnswerIDs datatypes.JSONSlice[uint] `json:"selectedAnswerIds"`
	TextResponse      string                    `gorm:"type:text" json:"textResponse,omitempty"`
	IsCorrect         bool                      `gorm:"default:false" json:"isCorrect"`
	PointsEarned      float64                   `gorm:"default:0" json:"pointsEarned"`
	TimeTaken         int                       `gorm:"default:0" json:"timeTaken"`
	AnsweredAt        time.Time                 `json:"answeredAt"`
}

func (QuizResponse) TableName() string {
	return "quiz_responses"
}

type QuizFeedback struct {
	BaseModel
	AttemptID          uint   `gorm:"uniqueIndex;not null" json:"attemptId"`
	DifficultyRating   int    `json:"difficultyRating"`
	HelpfulRating      int    `json:"helpfulRating"`
	ConceptsUnderstood string `gorm:"type:text" json:"conceptsUnderstood"`
	ConceptsConfusing  string `gorm:"type:text" json:"conceptsConfusing"`
	Suggestions        string `gorm:"type:text" json:"suggestions"`
}

func (QuizFeedback) TableName() string {
	return "quiz_feedback"
}
