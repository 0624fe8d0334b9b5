package model

import (
	"gorm.io/datatypes"
)

// swagger:model Grade
type Grade struct {
	BaseModel
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"column:sort_order;default:0" json:"order"`

	Topics []Topic `gorm:"foreignKey:GradeID" json:"topics,omitempty"`
}

func (Grade) TableName() string {
	return "grades"
}

// swagger:model Topic
type Topic struct {
	BaseModel
	Title             string `gorm:"size:200;not null" json:"title"`
	Slug              string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description       string `gorm:"type:text" json:"description"`
	GradeID           uint   `gorm:"index;not null" json:"gradeId"`
	Difficulty        string `gorm:"size:20;default:'beginner'" json:"difficulty"`
	LearningOutcomes  string `gorm:"type:text" json:"learningOutcomes"`
	EstimatedDuration int    `gorm:"default:0" json:"estimatedDuration"` // 分钟
	Order             int    `gorm:"column:sort_order;default:0" json:"order"`
	IsActive          bool   `gorm:"not null" json:"isActive"`

	Grade         *Grade            `gorm:"foreignKey:GradeID" json:"grade,omitempty"`
	Prerequisites []Topic           `gorm:"many2many:topic_prerequisites;joinForeignKey:TopicID;joinReferences:PrerequisiteID" json:"prerequisites,omitempty"`
	Contents      []TopicContent    `gorm:"foreignKey:TopicID" json:"contents,omitempty"`
	Media         []TopicMedia      `gorm:"foreignKey:TopicID" json:"media,omitempty"`
	Formulas      []TopicFormula    `gorm:"foreignKey:TopicID" json:"formulas,omitempty"`
	Experiments   []TopicExperiment `gorm:"foreignKey:TopicID" json:"experiments,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}

const (
	ContentTheory      = "theory"
	ContentFormula     = "formula"
	ContentExample     = "example"
	ContentExperiment  = "experiment"
	ContentApplication = "application"
)

type TopicContent struct {
	BaseModel
	TopicID     uint   `gorm:"index;not null" json:"topicId"`
	ContentType string `gorm:"size:20;not null" json:"contentType"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	Order       int    `gorm:"column:sort_order;default:0" json:"order"`
	IsEssential bool   `gorm:"not null" json:"isEssential"`
}

func (TopicContent) TableName() string {
	return "topic_contents"
}

const (
	MediaImage     = "image"
	MediaVideo     = "video"
	MediaAnimation = "animation"
	MediaDiagram   = "diagram"
	MediaAudio     = "audio"
)

type TopicMedia struct {
	BaseModel
	TopicID         uint    `gorm:"index;not null" json:"topicId"`
	ContentID       *uint   `gorm:"index" json:"contentId,omitempty"`
	MediaType       string  `gorm:"size:20;not null" json:"mediaType"`
	Title           string  `gorm:"size:200;not null" json:"title"`
	FileURL         string  `gorm:"size:500" json:"fileUrl"`
	ThumbnailURL    string  `gorm:"size:500" json:"thumbnailUrl,omitempty"`
	DurationSeconds float64 `gorm:"default:0" json:"durationSeconds,omitempty"`
	Description     string  `gorm:"type:text" json:"description"`
	Order           int     `gorm:"column:sort_order;default:0" json:"order"`
}

func (TopicMedia) TableName() string {
	return "topic_media"
}

type TopicFormula struct {
	BaseModel
	TopicID            uint           `gorm:"index;not null" json:"topicId"`
	Name               string         `gorm:"size:200;not null" json:"name"`
	Formula            string         `gorm:"size:500;not null" json:"formula"` // LaTeX
	Description        string         `gorm:"type:text" json:"description"`
	Variables          datatypes.JSON `json:"variables"`
	Units              string         `gorm:"size:100" json:"units"`
	ExampleCalculation string         `gorm:"type:text" json:"exampleCalculation"`
	IsEssential        bool           `gorm:"not null" json:"isEssential"`
	Order              int            `gorm:"column:sort_order;default:0" json:"order"`
}

func (TopicFormula) TableName() string {
	return "topic_formulas"
}

type TopicExperiment struct {
	BaseModel
	TopicID         uint   `gorm:"index;not null" json:"topicId"`
	Title           string `gorm:"size:200;not null" json:"title"`
	Objective       string `gorm:"type:text" json:"objective"`
	MaterialsNeeded string `gorm:"type:text" json:"materialsNeeded"`
	Procedure       string `gorm:"type:text" json:"procedure"`
	ExpectedResults string `gorm:"type:text" json:"expectedResults"`
	SafetyNotes     string `gorm:"type:text" json:"safetyNotes"`
	IsVirtual       bool   `gorm:"not null" json:"isVirtual"`
	SimulationURL   string `gorm:"size:500" json:"simulationUrl"`
	Order           int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (TopicExperiment) TableName() string {
	return "topic_experiments"
}
