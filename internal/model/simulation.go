package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SimulationMotion         = "motion"
	SimulationElectricity    = "electricity"
	SimulationOptics         = "optics"
	SimulationWaves          = "waves"
	SimulationThermodynamics = "thermodynamics"
	SimulationQuantum        = "quantum"
	SimulationRelativity     = "relativity"
)

func ValidSimulationType(t string) bool {
	switch t {
	case SimulationMotion, SimulationElectricity, SimulationOptics, SimulationWaves,
		SimulationThermodynamics, SimulationQuantum, SimulationRelativity:
		return true
	}
	return false
}

// swagger:model Simulation
type Simulation struct {
	BaseModel
	TopicID            uint           `gorm:"index;not null" json:"topicId"`
	Title              string         `gorm:"size:200;not null" json:"title"`
	Slug               string         `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description        string         `gorm:"type:text" json:"description"`
	SimulationType     string         `gorm:"size:20;not null" json:"simulationType"`
	HTMLContent        string         `gorm:"type:text" json:"htmlContent,omitempty"`
	CSSContent         string         `gorm:"type:text" json:"cssContent,omitempty"`
	JSContent          string         `gorm:"type:text" json:"jsContent,omitempty"`
	Parameters         datatypes.JSON `json:"parameters,omitempty"`
	LearningObjectives string         `gorm:"type:text" json:"learningObjectives"`
	Instructions       string         `gorm:"type:text" json:"instructions"`
	Difficulty         string         `gorm:"size:20;default:'beginner'" json:"difficulty"`
	IsInteractive      bool           `gorm:"not null" json:"isInteractive"`
	EstimatedDuration  int            `gorm:"default:10" json:"estimatedDuration"` // 分钟
	Order              int            `gorm:"column:sort_order;default:0" json:"order"`
	IsActive           bool           `gorm:"not null" json:"isActive"`

	Topic           *Topic                `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	ParameterConfig []SimulationParameter `gorm:"foreignKey:SimulationID" json:"parameterConfig,omitempty"`
}

func (Simulation) TableName() string {
	return "simulations"
}

const (
	ParamSlider   = "slider"
	ParamInput    = "input"
	ParamDropdown = "dropdown"
	ParamCheckbox = "checkbox"
	ParamColor    = "color"
)

func ValidParameterType(t string) bool {
	switch t {
	case ParamSlider, ParamInput, ParamDropdown, ParamCheckbox, ParamColor:
		return true
	}
	return false
}

type SimulationParameter struct {
	BaseModel
	SimulationID  uint           `gorm:"index;not null" json:"simulationId"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	ParameterType string         `gorm:"size:20;not null" json:"parameterType"`
	DefaultValue  string         `gorm:"size:100" json:"defaultValue"`
	MinValue      *float64       `json:"minValue,omitempty"`
	MaxValue      *float64       `json:"maxValue,omitempty"`
	StepValue     *float64       `json:"stepValue,omitempty"`
	Options       datatypes.JSON `json:"options,omitempty"` // dropdown 可选值
	Description   string         `gorm:"type:text" json:"description"`
	Order         int            `gorm:"column:sort_order;default:0" json:"order"`
}

func (SimulationParameter) TableName() string {
	return "simulation_parameters"
}

type SimulationSession struct {
	BaseModel
	UserID            uint           `gorm:"index:idx_sim_session_user_sim;not null" json:"userId"`
	SimulationID      uint           `gorm:"index:idx_sim_session_user_sim;not null" json:"simulationId"`
	StartedAt         time.Time      `json:"startedAt"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
	Duration          int            `gorm:"default:0" json:"duration"` // 秒
	ParametersUsed    datatypes.JSON `json:"parametersUsed,omitempty"`
	InteractionsCount int            `gorm:"default:0" json:"interactionsCount"`
	IsCompleted       bool           `gorm:"default:false" json:"isCompleted"`

	Simulation *Simulation `gorm:"foreignKey:SimulationID" json:"simulation,omitempty"`
}

func (SimulationSession) TableName() string {
	return "simulation_sessions"
}

type SimulationFeedback struct {
	BaseModel
	SessionID           uint   `gorm:"uniqueIndex;not null" json:"sessionId"`
	UnderstandingRating int    `json:"understandingRating"`
	DifficultyRating    int    `json:"difficultyRating"`
	HelpfulRating       int    `json:"helpfulRating"`
	Comments            string `gorm:"type:text" json:"comments"`
	ConceptsLearned     string `gorm:"type:text" json:"conceptsLearned"`
	QuestionsArose      string `gorm:"type:text" json:"questionsArose"`
}

func (SimulationFeedback) TableName() string {
	return "simulation_feedback"
}
