package service

import (
	"context"
	"fmt"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"strings"
)

type CatalogService struct {
	GradeRepo *repository.GradeRepository
	TopicRepo *repository.TopicRepository
	QuizRepo  *repository.QuizRepository
	SimRepo   *repository.SimulationRepository
	Cache     *CatalogCache
}

func NewCatalogService(
	gradeRepo *repository.GradeRepository,
	topicRepo *repository.TopicRepository,
	quizRepo *repository.QuizRepository,
	simRepo *repository.SimulationRepository,
	cache *CatalogCache,
) *CatalogService {
	return &CatalogService{
		GradeRepo: gradeRepo,
		TopicRepo: topicRepo,
		QuizRepo:  quizRepo,
		SimRepo:   simRepo,
		Cache:     cache,
	}
}

// HomeView 首页
type HomeView struct {
	Grades         []model.Grade `json:"grades"`
	FeaturedTopics []model.Topic `json:"featuredTopics"`
}

func (s *CatalogService) Home(ctx context.Context) (*HomeView, error) {
	var view HomeView
	if s.Cache.Get(ctx, "home", &view) {
		return &view, nil
	}

	grades, err := s.GradeRepo.List()
	if err != nil {
		return nil, err
	}
	featured, err := s.TopicRepo.Featured(util.FeaturedTopicCount)
	if err != nil {
		return nil, err
	}
	view = HomeView{Grades: grades, FeaturedTopics: featured}
	s.Cache.Set(ctx, "home", view)
	return &view, nil
}

func (s *CatalogService) Grades(ctx context.Context) ([]model.Grade, error) {
	var grades []model.Grade
	if s.Cache.Get(ctx, "grades", &grades) {
		return grades, nil
	}
	grades, err := s.GradeRepo.List()
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, "grades", grades)
	return grades, nil
}

func (s *CatalogService) Topics(ctx context.Context, gradeID *uint) ([]model.Topic, error) {
	key := "topics:all"
	if gradeID != nil {
		key = fmt.Sprintf("topics:grade:%d", *gradeID)
	}
	var topics []model.Topic
	if s.Cache.Get(ctx, key, &topics) {
		return topics, nil
	}
	topics, err := s.TopicRepo.List(gradeID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, topics)
	return topics, nil
}

// TopicDetail 主题详情页
type TopicDetail struct {
	Topic       *model.Topic       `json:"topic"`
	Quizzes     []model.Quiz       `json:"quizzes"`
	Simulations []model.Simulation `json:"simulations"`
}

func (s *CatalogService) TopicBySlug(ctx context.Context, slug string) (*TopicDetail, error) {
	key := "topic:" + slug
	var detail TopicDetail
	if s.Cache.Get(ctx, key, &detail) {
		return &detail, nil
	}

	topic, err := s.TopicRepo.FindDetailBySlug(slug)
	if err != nil {
		return nil, notFound(err, util.ErrTopicNotFound)
	}
	quizzes, err := s.QuizRepo.ListByTopic(topic.ID)
	if err != nil {
		return nil, err
	}
	sims, err := s.SimRepo.ListByTopic(topic.ID)
	if err != nil {
		return nil, err
	}
	// 列表页不下发仿真代码
	for i := range sims {
		sims[i].HTMLContent, sims[i].CSSContent, sims[i].JSContent = "", "", ""
	}

	detail = TopicDetail{Topic: topic, Quizzes: quizzes, Simulations: sims}
	s.Cache.Set(ctx, key, detail)
	return &detail, nil
}

func (s *CatalogService) SearchTopics(keyword string) ([]model.Topic, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []model.Topic{}, nil
	}
	return s.TopicRepo.Search(keyword, util.SearchResultLimit)
}

// SearchResult 全站搜索结果
type SearchResult struct {
	Query       string             `json:"query"`
	Topics      []model.Topic      `json:"topics"`
	Quizzes     []model.Quiz       `json:"quizzes"`
	Simulations []model.Simulation `json:"simulations"`
	Total       int                `json:"total"`
}

func (s *CatalogService) Search(keyword string) (*SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	result := &SearchResult{
		Query:       keyword,
		Topics:      []model.Topic{},
		Quizzes:     []model.Quiz{},
		Simulations: []model.Simulation{},
	}
	if keyword == "" {
		return result, nil
	}

	var err error
	if result.Topics, err = s.TopicRepo.Search(keyword, util.SearchResultLimit); err != nil {
		return nil, err
	}
	if result.Quizzes, err = s.QuizRepo.Search(keyword, util.SearchResultLimit); err != nil {
		return nil, err
	}
	if result.Simulations, err = s.SimRepo.Search(keyword, util.SearchResultLimit); err != nil {
		return nil, err
	}
	for i := range result.Simulations {
		result.Simulations[i].HTMLContent, result.Simulations[i].CSSContent, result.Simulations[i].JSContent = "", "", ""
	}
	result.Total = len(result.Topics) + len(result.Quizzes) + len(result.Simulations)
	return result, nil
}

// uniqueSlug 生成唯一 slug，冲突时追加序号
func uniqueSlug(title string, excludeID uint, exists func(string, uint) (bool, error)) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		return "", invalidf("title must contain letters or digits")
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := exists(slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
