package service

import (
	"context"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogAdminService 年级、主题及主题资源的后台管理
type CatalogAdminService struct {
	DB           *gorm.DB
	GradeRepo    *repository.GradeRepository
	TopicRepo    *repository.TopicRepository
	ResourceRepo *repository.TopicResourceRepository
	Cache        *CatalogCache
}

func NewCatalogAdminService(
	db *gorm.DB,
	gradeRepo *repository.GradeRepository,
	topicRepo *repository.TopicRepository,
	resourceRepo *repository.TopicResourceRepository,
	cache *CatalogCache,
) *CatalogAdminService {
	return &CatalogAdminService{
		DB:           db,
		GradeRepo:    gradeRepo,
		TopicRepo:    topicRepo,
		ResourceRepo: resourceRepo,
		Cache:        cache,
	}
}

type GradeInput struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func (s *CatalogAdminService) CreateGrade(ctx context.Context, in *GradeInput) (*model.Grade, error) {
	grade := &model.Grade{Name: in.Name, Description: in.Description, Order: in.Order}
	if err := s.GradeRepo.Create(grade); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return grade, nil
}

func (s *CatalogAdminService) UpdateGrade(ctx context.Context, id uint, in *GradeInput) (*model.Grade, error) {
	grade, err := s.GradeRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrGradeNotFound)
	}
	grade.Name, grade.Description, grade.Order = in.Name, in.Description, in.Order
	if err := s.GradeRepo.Update(grade); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return grade, nil
}

func (s *CatalogAdminService) DeleteGrade(ctx context.Context, id uint) error {
	n, err := s.GradeRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrGradeNotFound
	}
	s.Cache.Invalidate(ctx)
	return nil
}

type TopicInput struct {
	Title             string `json:"title" binding:"required,max=200"`
	Description       string `json:"description"`
	GradeID           uint   `json:"gradeId" binding:"required"`
	Difficulty        string `json:"difficulty"`
	LearningOutcomes  string `json:"learningOutcomes"`
	EstimatedDuration int    `json:"estimatedDuration" binding:"min=0"`
	Order             int    `json:"order"`
	IsActive          *bool  `json:"isActive"`
	PrerequisiteIDs   []uint `json:"prerequisiteIds"`
}

func (s *CatalogAdminService) ListTopics(gradeID *uint) ([]model.Topic, error) {
	return s.TopicRepo.ListAll(gradeID)
}

func (s *CatalogAdminService) applyTopic(topic *model.Topic, in *TopicInput) error {
	if !model.ValidDifficulty(in.Difficulty) {
		return invalidf("unknown difficulty %q", in.Difficulty)
	}
	if _, err := s.GradeRepo.FindByID(in.GradeID); err != nil {
		return notFound(err, util.ErrGradeNotFound)
	}
	slug, err := uniqueSlug(in.Title, topic.ID, s.TopicRepo.SlugExists)
	if err != nil {
		return err
	}

	topic.Title = in.Title
	topic.Slug = slug
	topic.Description = in.Description
	topic.GradeID = in.GradeID
	topic.Difficulty = in.Difficulty
	if topic.Difficulty == "" {
		topic.Difficulty = model.DifficultyBeginner
	}
	topic.LearningOutcomes = in.LearningOutcomes
	topic.EstimatedDuration = in.EstimatedDuration
	topic.Order = in.Order
	topic.IsActive = boolOr(in.IsActive, true)
	return nil
}

func (s *CatalogAdminService) prerequisites(selfID uint, ids []uint) ([]model.Topic, error) {
	for _, id := range ids {
		if id == selfID && selfID != 0 {
			return nil, invalidf("topic cannot be its own prerequisite")
		}
	}
	topics, err := s.TopicRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(topics) != len(uniqueIDs(ids)) {
		return nil, util.ErrTopicNotFound
	}
	return topics, nil
}

func uniqueIDs(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (s *CatalogAdminService) CreateTopic(ctx context.Context, in *TopicInput) (*model.Topic, error) {
	topic := &model.Topic{}
	if err := s.applyTopic(topic, in); err != nil {
		return nil, err
	}
	prereqs, err := s.prerequisites(0, in.PrerequisiteIDs)
	if err != nil {
		return nil, err
	}
	topic.Prerequisites = prereqs

	if err := s.TopicRepo.Create(topic); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return s.TopicRepo.FindByID(topic.ID)
}

func (s *CatalogAdminService) UpdateTopic(ctx context.Context, id uint, in *TopicInput) (*model.Topic, error) {
	topic, err := s.TopicRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrTopicNotFound)
	}
	if err := s.applyTopic(topic, in); err != nil {
		return nil, err
	}
	var prereqs []model.Topic
	if in.PrerequisiteIDs != nil {
		if prereqs, err = s.prerequisites(topic.ID, in.PrerequisiteIDs); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.TopicRepo.WithTx(tx)
		topic.Grade = nil
		if err := repo.Update(topic); err != nil {
			return err
		}
		if in.PrerequisiteIDs == nil {
			return nil
		}
		return repo.ReplacePrerequisites(topic, prereqs)
	})
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return s.TopicRepo.FindByID(topic.ID)
}

func (s *CatalogAdminService) DeleteTopic(ctx context.Context, id uint) error {
	n, err := s.TopicRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrTopicNotFound
	}
	s.Cache.Invalidate(ctx)
	return nil
}

type ContentInput struct {
	ContentType string `json:"contentType" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Content     string `json:"content"`
	Order       int    `json:"order"`
	IsEssential *bool  `json:"isEssential"`
}

func validContentType(t string) bool {
	switch t {
	case model.ContentTheory, model.ContentFormula, model.ContentExample, model.ContentExperiment, model.ContentApplication:
		return true
	}
	return false
}

type FormulaInput struct {
	Name               string                 `json:"name" binding:"required,max=200"`
	Formula            string                 `json:"formula" binding:"required,max=500"`
	Description        string                 `json:"description"`
	Variables          map[string]interface{} `json:"variables"`
	Units              string                 `json:"units"`
	ExampleCalculation string                 `json:"exampleCalculation"`
	IsEssential        *bool                  `json:"isEssential"`
	Order              int                    `json:"order"`
}

type ExperimentInput struct {
	Title           string `json:"title" binding:"required,max=200"`
	Objective       string `json:"objective"`
	MaterialsNeeded string `json:"materialsNeeded"`
	Procedure       string `json:"procedure"`
	ExpectedResults string `json:"expectedResults"`
	SafetyNotes     string `json:"safetyNotes"`
	IsVirtual       *bool  `json:"isVirtual"`
	SimulationURL   string `json:"simulationUrl"`
	Order           int    `json:"order"`
}

func (s *CatalogAdminService) requireTopic(topicID uint) error {
	if _, err := s.TopicRepo.FindByID(topicID); err != nil {
		return notFound(err, util.ErrTopicNotFound)
	}
	return nil
}

// saveResource 新建（id 为 0）或更新主题资源
func (s *CatalogAdminService) saveResource(ctx context.Context, topicID, id uint, dest interface{}, fill func()) error {
	if err := s.requireTopic(topicID); err != nil {
		return err
	}
	if id != 0 {
		if err := s.ResourceRepo.FindInTopic(dest, topicID, id); err != nil {
			return notFound(err, gorm.ErrRecordNotFound)
		}
	}
	fill()
	var err error
	if id == 0 {
		err = s.ResourceRepo.Create(dest)
	} else {
		err = s.ResourceRepo.Save(dest)
	}
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

func (s *CatalogAdminService) SaveContent(ctx context.Context, topicID, id uint, in *ContentInput) (*model.TopicContent, error) {
	if !validContentType(in.ContentType) {
		return nil, invalidf("unknown content type %q", in.ContentType)
	}
	c := &model.TopicContent{}
	err := s.saveResource(ctx, topicID, id, c, func() {
		c.TopicID = topicID
		c.ContentType = in.ContentType
		c.Title = in.Title
		c.Content = in.Content
		c.Order = in.Order
		c.IsEssential = boolOr(in.IsEssential, true)
	})
	if err != nil {
		return nil, resourceNotFound(err)
	}
	return c, nil
}

func (s *CatalogAdminService) SaveFormula(ctx context.Context, topicID, id uint, in *FormulaInput) (*model.TopicFormula, error) {
	raw, err := jsonBytes(in.Variables)
	if err != nil {
		return nil, err
	}
	f := &model.TopicFormula{}
	err = s.saveResource(ctx, topicID, id, f, func() {
		f.TopicID = topicID
		f.Name = in.Name
		f.Formula = in.Formula
		f.Description = in.Description
		f.Variables = datatypes.JSON(raw)
		f.Units = in.Units
		f.ExampleCalculation = in.ExampleCalculation
		f.IsEssential = boolOr(in.IsEssential, true)
		f.Order = in.Order
	})
	if err != nil {
		return nil, resourceNotFound(err)
	}
	return f, nil
}

func (s *CatalogAdminService) SaveExperiment(ctx context.Context, topicID, id uint, in *ExperimentInput) (*model.TopicExperiment, error) {
	e := &model.TopicExperiment{}
	err := s.saveResource(ctx, topicID, id, e, func() {
		e.TopicID = topicID
		e.Title = in.Title
		e.Objective = in.Objective
		e.MaterialsNeeded = in.MaterialsNeeded
		e.Procedure = in.Procedure
		e.ExpectedResults = in.ExpectedResults
		e.SafetyNotes = in.SafetyNotes
		e.IsVirtual = boolOr(in.IsVirtual, true)
		e.SimulationURL = in.SimulationURL
		e.Order = in.Order
	})
	if err != nil {
		return nil, resourceNotFound(err)
	}
	return e, nil
}

// 主题资源种类
const (
	ResourceContent    = "contents"
	ResourceFormula    = "formulas"
	ResourceExperiment = "experiments"
	ResourceMedia      = "media"
)

func (s *CatalogAdminService) DeleteResource(ctx context.Context, kind string, topicID, id uint) error {
	var value interface{}
	switch kind {
	case ResourceContent:
		value = &model.TopicContent{}
	case ResourceFormula:
		value = &model.TopicFormula{}
	case ResourceExperiment:
		value = &model.TopicExperiment{}
	case ResourceMedia:
		value = &model.TopicMedia{}
	default:
		return invalidf("unknown resource kind %q", kind)
	}
	n, err := s.ResourceRepo.DeleteInTopic(value, topicID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrTopicNotFound
	}
	s.Cache.Invalidate(ctx)
	return nil
}

// resourceNotFound 子资源不存在按主题不存在处理
func resourceNotFound(err error) error {
	if err == gorm.ErrRecordNotFound {
		return util.ErrTopicNotFound
	}
	return err
}
