package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SeedFile 初始课程数据
type SeedFile struct {
	Grades []SeedGrade `yaml:"grades"`
}

type SeedGrade struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Order       int         `yaml:"order"`
	Topics      []SeedTopic `yaml:"topics"`
}

type SeedTopic struct {
	Title             string           `yaml:"title"`
	Description       string           `yaml:"description"`
	Difficulty        string           `yaml:"difficulty"`
	LearningOutcomes  string           `yaml:"learning_outcomes"`
	EstimatedDuration int              `yaml:"estimated_duration"`
	Order             int              `yaml:"order"`
	Contents          []SeedContent    `yaml:"contents"`
	Formulas          []SeedFormula    `yaml:"formulas"`
	Experiments       []SeedExperiment `yaml:"experiments"`
	Simulations       []SeedSimulation `yaml:"simulations"`
	Quizzes           []SeedQuiz       `yaml:"quizzes"`
}

type SeedContent struct {
	ContentType string `yaml:"content_type"`
	Title       string `yaml:"title"`
	Content     string `yaml:"content"`
}

type SeedFormula struct {
	Name               string                 `yaml:"name"`
	Formula            string                 `yaml:"formula"`
	Description        string                 `yaml:"description"`
	Variables          map[string]interface{} `yaml:"variables"`
	Units              string                 `yaml:"units"`
	ExampleCalculation string                 `yaml:"example_calculation"`
}

type SeedExperiment struct {
	Title           string `yaml:"title"`
	Objective       string `yaml:"objective"`
	MaterialsNeeded string `yaml:"materials_needed"`
	Procedure       string `yaml:"procedure"`
	ExpectedResults string `yaml:"expected_results"`
	SafetyNotes     string `yaml:"safety_notes"`
}

type SeedSimulation struct {
	Title              string          `yaml:"title"`
	Description        string          `yaml:"description"`
	SimulationType     string          `yaml:"simulation_type"`
	LearningObjectives string          `yaml:"learning_objectives"`
	Instructions       string          `yaml:"instructions"`
	Difficulty         string          `yaml:"difficulty"`
	EstimatedDuration  int             `yaml:"estimated_duration"`
	HTMLContent        string          `yaml:"html_content"`
	JSContent          string          `yaml:"js_content"`
	Parameters         []SeedParameter `yaml:"parameters"`
}

type SeedParameter struct {
	Name          string        `yaml:"name"`
	ParameterType string        `yaml:"parameter_type"`
	DefaultValue  string        `yaml:"default_value"`
	MinValue      *float64      `yaml:"min_value"`
	MaxValue      *float64      `yaml:"max_value"`
	StepValue     *float64      `yaml:"step_value"`
	Options       []interface{} `yaml:"options"`
	Description   string        `yaml:"description"`
}

type SeedQuiz struct {
	Title        string         `yaml:"title"`
	Description  string         `yaml:"description"`
	Instructions string         `yaml:"instructions"`
	TimeLimit    int            `yaml:"time_limit"`
	PassingScore *int           `yaml:"passing_score"`
	MaxAttempts  *int           `yaml:"max_attempts"`
	Difficulty   string         `yaml:"difficulty"`
	Questions    []SeedQuestion `yaml:"questions"`
}

type SeedQuestion struct {
	QuestionType string       `yaml:"question_type"`
	QuestionText string       `yaml:"question_text"`
	Explanation  string       `yaml:"explanation"`
	Points       int          `yaml:"points"`
	Answers      []SeedAnswer `yaml:"answers"`
}

type SeedAnswer struct {
	Text        string `yaml:"text"`
	Correct     bool   `yaml:"correct"`
	Explanation string `yaml:"explanation"`
}

// SeedStats 导入统计
type SeedStats struct {
	Grades      int
	Topics      int
	Simulations int
	Quizzes     int
	Skipped     int
}

// SeedService 从 YAML 导入年级、主题、模拟和测验
type SeedService struct {
	Catalog     *CatalogAdminService
	Quizzes     *QuizAdminService
	Simulations *SimulationAdminService
}

func NewSeedService(catalog *CatalogAdminService, quizzes *QuizAdminService, simulations *SimulationAdminService) *SeedService {
	return &SeedService{Catalog: catalog, Quizzes: quizzes, Simulations: simulations}
}

func ParseSeed(r io.Reader) (*SeedFile, error) {
	var file SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &file, nil
}

func (s *SeedService) SeedFromFile(ctx context.Context, path string) (*SeedStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := ParseSeed(f)
	if err != nil {
		return nil, err
	}
	return s.Seed(ctx, file)
}

// Seed 已存在的年级复用，已存在的主题（按 slug）跳过
func (s *SeedService) Seed(ctx context.Context, file *SeedFile) (*SeedStats, error) {
	stats := &SeedStats{}
	for _, g := range file.Grades {
		grade, err := s.Catalog.GradeRepo.FindByName(g.Name)
		if err != nil {
			return stats, err
		}
		if grade == nil {
			if grade, err = s.Catalog.CreateGrade(ctx, &GradeInput{Name: g.Name, Description: g.Description, Order: g.Order}); err != nil {
				return stats, fmt.Errorf("grade %q: %w", g.Name, err)
			}
			stats.Grades++
		}

		for _, t := range g.Topics {
			exists, err := s.Catalog.TopicRepo.SlugExists(util.Slugify(t.Title), 0)
			if err != nil {
				return stats, err
			}
			if exists {
				stats.Skipped++
				continue
			}
			if err := s.seedTopic(ctx, grade, &t, stats); err != nil {
				return stats, fmt.Errorf("topic %q: %w", t.Title, err)
			}
		}
	}

	logger.Log.Info("seed finished",
		zap.Int("grades", stats.Grades),
		zap.Int("topics", stats.Topics),
		zap.Int("simulations", stats.Simulations),
		zap.Int("quizzes", stats.Quizzes),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (s *SeedService) seedTopic(ctx context.Context, grade *model.Grade, t *SeedTopic, stats *SeedStats) error {
	topic, err := s.Catalog.CreateTopic(ctx, &TopicInput{
		Title:             t.Title,
		Description:       t.Description,
		GradeID:           grade.ID,
		Difficulty:        t.Difficulty,
		LearningOutcomes:  t.LearningOutcomes,
		EstimatedDuration: t.EstimatedDuration,
		Order:             t.Order,
	})
	if err != nil {
		return err
	}
	stats.Topics++

	for i, c := range t.Contents {
		if _, err := s.Catalog.SaveContent(ctx, topic.ID, 0, &ContentInput{
			ContentType: c.ContentType,
			Title:       c.Title,
			Content:     c.Content,
			Order:       i + 1,
		}); err != nil {
			return err
		}
	}
	for i, f := range t.Formulas {
		if _, err := s.Catalog.SaveFormula(ctx, topic.ID, 0, &FormulaInput{
			Name:               f.Name,
			Formula:            f.Formula,
			Description:        f.Description,
			Variables:          f.Variables,
			Units:              f.Units,
			ExampleCalculation: f.ExampleCalculation,
			Order:              i + 1,
		}); err != nil {
			return err
		}
	}
	for i, e := range t.Experiments {
		if _, err := s.Catalog.SaveExperiment(ctx, topic.ID, 0, &ExperimentInput{
			Title:           e.Title,
			Objective:       e.Objective,
			MaterialsNeeded: e.MaterialsNeeded,
			Procedure:       e.Procedure,
			ExpectedResults: e.ExpectedResults,
			SafetyNotes:     e.SafetyNotes,
			Order:           i + 1,
		}); err != nil {
			return err
		}
	}

	for i, sim := range t.Simulations {
		params := make([]ParameterInput, 0, len(sim.Parameters))
		for j, p := range sim.Parameters {
			params = append(params, ParameterInput{
				Name:          p.Name,
				ParameterType: p.ParameterType,
				DefaultValue:  p.DefaultValue,
				MinValue:      p.MinValue,
				MaxValue:      p.MaxValue,
				StepValue:     p.StepValue,
				Options:       p.Options,
				Description:   p.Description,
				Order:         j + 1,
			})
		}
		if _, err := s.Simulations.Create(&SimulationInput{
			TopicID:            topic.ID,
			Title:              sim.Title,
			Description:        sim.Description,
			SimulationType:     sim.SimulationType,
			HTMLContent:        sim.HTMLContent,
			JSContent:          sim.JSContent,
			LearningObjectives: sim.LearningObjectives,
			Instructions:       sim.Instructions,
			Difficulty:         sim.Difficulty,
			EstimatedDuration:  sim.EstimatedDuration,
			Order:              i + 1,
			ParameterConfig:    params,
		}); err != nil {
			return fmt.Errorf("simulation %q: %w", sim.Title, err)
		}
		stats.Simulations++
	}

	for _, q := range t.Quizzes {
		questions := make([]QuestionInput, 0, len(q.Questions))
		for _, qq := range q.Questions {
			answers := make([]AnswerInput, 0, len(qq.Answers))
			for _, a := range qq.Answers {
				answers = append(answers, AnswerInput{AnswerText: a.Text, IsCorrect: a.Correct, Explanation: a.Explanation})
			}
			questions = append(questions, QuestionInput{
				QuestionType: qq.QuestionType,
				QuestionText: qq.QuestionText,
				Explanation:  qq.Explanation,
				Points:       qq.Points,
				Answers:      answers,
			})
		}
		if _, err := s.Quizzes.Create(&QuizInput{
			TopicID:      topic.ID,
			Title:        q.Title,
			Description:  q.Description,
			Instructions: q.Instructions,
			TimeLimit:    q.TimeLimit,
			PassingScore: q.PassingScore,
			MaxAttempts:  q.MaxAttempts,
			Difficulty:   q.Difficulty,
			Questions:    questions,
		}); err != nil {
			return fmt.Errorf("quiz %q: %w", q.Title, err)
		}
		stats.Quizzes++
	}
	return nil
}
