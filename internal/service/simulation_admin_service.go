package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SimulationAdminService 仿真后台管理
type SimulationAdminService struct {
	DB        *gorm.DB
	SimRepo   *repository.SimulationRepository
	TopicRepo *repository.TopicRepository
}

func NewSimulationAdminService(db *gorm.DB, simRepo *repository.SimulationRepository, topicRepo *repository.TopicRepository) *SimulationAdminService {
	return &SimulationAdminService{DB: db, SimRepo: simRepo, TopicRepo: topicRepo}
}

type ParameterInput struct {
	Name          string        `json:"name" binding:"required,max=100"`
	ParameterType string        `json:"parameterType" binding:"required"`
	DefaultValue  string        `json:"defaultValue"`
	MinValue      *float64      `json:"minValue"`
	MaxValue      *float64      `json:"maxValue"`
	StepValue     *float64      `json:"stepValue"`
	Options       []interface{} `json:"options"`
	Description   string        `json:"description"`
	Order         int           `json:"order"`
}

type SimulationInput struct {
	TopicID            uint                   `json:"topicId" binding:"required"`
	Title              string                 `json:"title" binding:"required,max=200"`
	Description        string                 `json:"description"`
	SimulationType     string                 `json:"simulationType" binding:"required"`
	HTMLContent        string                 `json:"htmlContent"`
	CSSContent         string                 `json:"cssContent"`
	JSContent          string                 `json:"jsContent"`
	Parameters         map[string]interface{} `json:"parameters"`
	LearningObjectives string                 `json:"learningObjectives"`
	Instructions       string                 `json:"instructions"`
	Difficulty         string                 `json:"difficulty"`
	IsInteractive      *bool                  `json:"isInteractive"`
	EstimatedDuration  int                    `json:"estimatedDuration" binding:"min=0"`
	Order              int                    `json:"order"`
	IsActive           *bool                  `json:"isActive"`
	ParameterConfig    []ParameterInput       `json:"parameterConfig" binding:"dive"`
}

// BuildParameters 校验并转换参数定义
func BuildParameters(inputs []ParameterInput) ([]model.SimulationParameter, error) {
	seen := make(map[string]bool, len(inputs))
	params := make([]model.SimulationParameter, 0, len(inputs))
	for i, in := range inputs {
		if !model.ValidParameterType(in.ParameterType) {
			return nil, invalidf("parameter %s: unknown type %q", in.Name, in.ParameterType)
		}
		if seen[in.Name] {
			return nil, invalidf("parameter %s defined twice", in.Name)
		}
		seen[in.Name] = true
		if in.MinValue != nil && in.MaxValue != nil && *in.MinValue > *in.MaxValue {
			return nil, invalidf("parameter %s: min greater than max", in.Name)
		}
		if in.ParameterType == model.ParamDropdown && len(in.Options) == 0 {
			return nil, invalidf("parameter %s: dropdown needs options", in.Name)
		}

		var options datatypes.JSON
		if len(in.Options) > 0 {
			raw, err := jsonBytes(in.Options)
			if err != nil {
				return nil, err
			}
			options = datatypes.JSON(raw)
		}
		order := in.Order
		if order == 0 {
			order = i + 1
		}
		p := model.SimulationParameter{
			Name:          in.Name,
			ParameterType: in.ParameterType,
			DefaultValue:  in.DefaultValue,
			MinValue:      in.MinValue,
			MaxValue:      in.MaxValue,
			StepValue:     in.StepValue,
			Options:       options,
			Description:   in.Description,
			Order:         order,
		}
		if p.DefaultValue != "" {
			if _, err := ValidateParameterValue(&p, DefaultParameterValues([]model.SimulationParameter{p})[p.Name]); err != nil {
				return nil, invalidf("parameter %s: default value out of range", in.Name)
			}
		}
		params = append(params, p)
	}
	return params, nil
}

func (s *SimulationAdminService) apply(sim *model.Simulation, in *SimulationInput) error {
	if !model.ValidSimulationType(in.SimulationType) {
		return invalidf("unknown simulation type %q", in.SimulationType)
	}
	if !model.ValidDifficulty(in.Difficulty) {
		return invalidf("unknown difficulty %q", in.Difficulty)
	}
	if _, err := s.TopicRepo.FindByID(in.TopicID); err != nil {
		return notFound(err, util.ErrTopicNotFound)
	}

	slug, err := uniqueSlug(in.Title, sim.ID, s.SimRepo.SlugExists)
	if err != nil {
		return err
	}
	raw, err := jsonBytes(in.Parameters)
	if err != nil {
		return err
	}

	sim.TopicID = in.TopicID
	sim.Title = in.Title
	sim.Slug = slug
	sim.Description = in.Description
	sim.SimulationType = in.SimulationType
	sim.HTMLContent = in.HTMLContent
	sim.CSSContent = in.CSSContent
	sim.JSContent = in.JSContent
	sim.Parameters = datatypes.JSON(raw)
	sim.LearningObjectives = in.LearningObjectives
	sim.Instructions = in.Instructions
	sim.Difficulty = in.Difficulty
	if sim.Difficulty == "" {
		sim.Difficulty = model.DifficultyBeginner
	}
	sim.IsInteractive = boolOr(in.IsInteractive, true)
	sim.EstimatedDuration = in.EstimatedDuration
	if sim.EstimatedDuration == 0 {
		sim.EstimatedDuration = 10
	}
	sim.Order = in.Order
	sim.IsActive = boolOr(in.IsActive, true)
	return nil
}

func (s *SimulationAdminService) List(topicID *uint) ([]model.Simulation, error) {
	return s.SimRepo.ListAll(topicID)
}

func (s *SimulationAdminService) Get(id uint) (*model.Simulation, error) {
	sim, err := s.SimRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrSimulationNotFound)
	}
	return sim, nil
}

func (s *SimulationAdminService) Create(in *SimulationInput) (*model.Simulation, error) {
	sim := &model.Simulation{}
	if err := s.apply(sim, in); err != nil {
		return nil, err
	}
	params, err := BuildParameters(in.ParameterConfig)
	if err != nil {
		return nil, err
	}
	sim.ParameterConfig = params

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.SimRepo.WithTx(tx).Create(sim)
	}); err != nil {
		return nil, err
	}
	return s.Get(sim.ID)
}

// Update 更新仿真；传入 parameterConfig 时整体替换参数定义
func (s *SimulationAdminService) Update(id uint, in *SimulationInput) (*model.Simulation, error) {
	sim, err := s.SimRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrSimulationNotFound)
	}
	if err := s.apply(sim, in); err != nil {
		return nil, err
	}
	var params []model.SimulationParameter
	if in.ParameterConfig != nil {
		if params, err = BuildParameters(in.ParameterConfig); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.SimRepo.WithTx(tx)
		if err := repo.Update(sim); err != nil {
			return err
		}
		if in.ParameterConfig == nil {
			return nil
		}
		return repo.ReplaceParameters(sim.ID, params)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(sim.ID)
}

func (s *SimulationAdminService) Delete(id uint) error {
	n, err := s.SimRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrSimulationNotFound
	}
	return nil
}
