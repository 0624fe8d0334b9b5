package model

const (
	LearningTimeMorning   = "morning"
	LearningTimeAfternoon = "afternoon"
	LearningTimeEvening   = "evening"
	LearningTimeFlexible  = "flexible"
)

const (
	InterestLow      = "low"
	InterestMedium   = "medium"
	InterestHigh     = "high"
	InterestVeryHigh = "very_high"
)

type StudentProfile struct {
	BaseModel
	UserID                uint   `gorm:"uniqueIndex;not null" json:"userId"`
	ParentEmail           string `gorm:"size:100" json:"parentEmail,omitempty"`
	LearningGoals         string `gorm:"type:text" json:"learningGoals"`
	PreferredLearningTime string `gorm:"size:20;default:'flexible'" json:"preferredLearningTime"`
	PhysicsInterestLevel  string `gorm:"size:20;default:'medium'" json:"physicsInterestLevel"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type TeacherProfile struct {
	BaseModel
	UserID          uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Specialization  string `gorm:"size:200" json:"specialization"`
	YearsExperience int    `gorm:"default:0" json:"yearsExperience"`
	Qualifications  string `gorm:"type:text" json:"qualifications"`
	SchoolName      string `gorm:"size:200" json:"schoolName"`
	IsApproved      bool   `gorm:"default:false" json:"isApproved"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

const (
	StyleVisual      = "visual"
	StyleAuditory    = "auditory"
	StyleKinesthetic = "kinesthetic"
	StyleReading     = "reading"
)

const (
	BackgroundBeginner      = "beginner"
	BackgroundSomeKnowledge = "some_knowledge"
	BackgroundIntermediate  = "intermediate"
	BackgroundAdvanced      = "advanced"
)

// LearningProfile 学习偏好档案
type LearningProfile struct {
	BaseModel
	UserID                 uint   `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentGradeID         *uint  `gorm:"index" json:"currentGradeId,omitempty"`
	LearningGoals          string `gorm:"type:text" json:"learningGoals"`
	PreferredLearningStyle string `gorm:"size:20;default:'visual'" json:"preferredLearningStyle"`
	PhysicsBackground      string `gorm:"size:20;default:'beginner'" json:"physicsBackground"`
	TimeAvailable          int    `gorm:"default:30" json:"timeAvailable"` // 每日分钟数

	CurrentGrade *Grade `gorm:"foreignKey:CurrentGradeID" json:"currentGrade,omitempty"`
}

func (LearningProfile) TableName() string {
	return "learning_profiles"
}

func ValidLearningStyle(s string) bool {
	switch s {
	case "", StyleVisual, StyleAuditory, StyleKinesthetic, StyleReading:
		return true
	}
	return false
}

func ValidPhysicsBackground(s string) bool {
	switch s {
	case "", BackgroundBeginner, BackgroundSomeKnowledge, BackgroundIntermediate, BackgroundAdvanced:
		return true
	}
	return false
}
