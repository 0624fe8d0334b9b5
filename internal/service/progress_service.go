package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProgressService struct {
	DB               *gorm.DB
	ProgressRepo     *repository.ProgressRepository
	TopicRepo        *repository.TopicRepository
	StudySessionRepo *repository.StudySessionRepository
	PathRepo         *repository.LearningPathRepository
	AchievementRepo  *repository.AchievementRepository
	Analytics        *AnalyticsService
	Now              func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	progressRepo *repository.ProgressRepository,
	topicRepo *repository.TopicRepository,
	studySessionRepo *repository.StudySessionRepository,
	pathRepo *repository.LearningPathRepository,
	achievementRepo *repository.AchievementRepository,
	analytics *AnalyticsService,
) *ProgressService {
	return &ProgressService{
		DB:               db,
		ProgressRepo:     progressRepo,
		TopicRepo:        topicRepo,
		StudySessionRepo: studySessionRepo,
		PathRepo:         pathRepo,
		AchievementRepo:  achievementRepo,
		Analytics:        analytics,
		Now:              time.Now,
	}
}

func (s *ProgressService) ListProgress(userID uint) ([]model.TopicProgress, error) {
	return s.ProgressRepo.ListByUser(userID)
}

// StartTopic 创建进度记录或将未开始状态置为学习中
func (s *ProgressService) StartTopic(userID, topicID uint) (*model.TopicProgress, error) {
	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		return nil, notFound(err, util.ErrTopicNotFound)
	}
	if !topic.IsActive {
		return nil, util.ErrTopicNotFound
	}

	now := s.Now()
	p, err := s.ProgressRepo.Find(userID, topicID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &model.TopicProgress{
			UserID:             userID,
			TopicID:            topicID,
			Status:             model.StatusInProgress,
			StartedAt:          &now,
			UnderstandingLevel: 1,
			LastAccessed:       now,
		}
		if err := s.ProgressRepo.Create(p); err != nil {
			return nil, err
		}
		return p, nil
	}

	if p.Status == model.StatusNotStarted {
		p.Status = model.StatusInProgress
		p.StartedAt = &now
	}
	p.LastAccessed = now
	if err := s.ProgressRepo.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProgressUpdate 更新理解程度、笔记与学习时长
type ProgressUpdate struct {
	UnderstandingLevel *int    `json:"understandingLevel"`
	Notes              *string `json:"notes"`
	TimeSpent          int     `json:"timeSpent" binding:"min=0"` // 本次新增分钟数
}

// ProgressResult 进度变更结果
type ProgressResult struct {
	Progress        *model.TopicProgress `json:"progress"`
	NewAchievements []model.Achievement  `json:"newAchievements"`
}

func (s *ProgressService) UpdateProgress(userID, topicID uint, in *ProgressUpdate) (*ProgressResult, error) {
	if in.UnderstandingLevel != nil {
		if err := validRating(*in.UnderstandingLevel); err != nil {
			return nil, invalidf("understanding level must be between 1 and 5")
		}
	}

	result := &ProgressResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.ProgressRepo.WithTx(tx)
		p, err := repo.Find(userID, topicID)
		if err != nil {
			return err
		}
		if p == nil {
			return util.ErrProgressNotFound
		}

		if in.UnderstandingLevel != nil {
			p.UnderstandingLevel = *in.UnderstandingLevel
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}
		p.TimeSpent += in.TimeSpent
		p.LastAccessed = s.Now()
		if err := repo.Save(p); err != nil {
			return err
		}
		result.Progress = p

		if in.TimeSpent == 0 {
			return nil
		}
		awarded, err := s.Analytics.Record(tx, userID, ActivityEvent{StudyMinutes: in.TimeSpent})
		result.NewAchievements = awarded
		return err
	})
	if err != nil {
		return nil, err
	}
	ObserveAwards(result.NewAchievements)
	return result, nil
}

type CompleteTopicInput struct {
	UnderstandingLevel *int `json:"understandingLevel"`
}

// CompleteTopic 标记完成，理解程度为 5 时记为已掌握，完成次数只计一次
func (s *ProgressService) CompleteTopic(userID, topicID uint, in *CompleteTopicInput) (*ProgressResult, error) {
	if in.UnderstandingLevel != nil {
		if err := validRating(*in.UnderstandingLevel); err != nil {
			return nil, invalidf("understanding level must be between 1 and 5")
		}
	}

	result := &ProgressResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.ProgressRepo.WithTx(tx)
		p, err := repo.Find(userID, topicID)
		if err != nil {
			return err
		}
		if p == nil {
			return util.ErrProgressNotFound
		}

		firstCompletion := !p.IsFinished()
		now := s.Now()
		if in.UnderstandingLevel != nil {
			p.UnderstandingLevel = *in.UnderstandingLevel
		}
		if p.UnderstandingLevel == 5 {
			p.Status = model.StatusMastered
		} else if p.Status != model.StatusMastered {
			p.Status = model.StatusCompleted
		}
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
		if p.CompletedAt == nil {
			p.CompletedAt = &now
		}
		p.LastAccessed = now
		if err := repo.Save(p); err != nil {
			return err
		}
		result.Progress = p

		if !firstCompletion {
			return nil
		}
		awarded, err := s.Analytics.Record(tx, userID, ActivityEvent{TopicCompleted: true})
		result.NewAchievements = awarded
		return err
	})
	if err != nil {
		return nil, err
	}

	ObserveAwards(result.NewAchievements)
	logger.Log.Info("topic completed",
		zap.Uint("userID", userID),
		zap.Uint("topicID", topicID),
		zap.String("status", result.Progress.Status),
	)
	return result, nil
}

type StartStudyInput struct {
	SessionType string `json:"sessionType" binding:"required"`
	TopicID     *uint  `json:"topicId"`
}

func (s *ProgressService) StartStudySession(userID uint, in *StartStudyInput) (*model.StudySession, error) {
	if !model.ValidSessionType(in.SessionType) {
		return nil, invalidf("unknown session type %q", in.SessionType)
	}
	if in.TopicID != nil {
		if _, err := s.TopicRepo.FindByID(*in.TopicID); err != nil {
			return nil, notFound(err, util.ErrTopicNotFound)
		}
	}

	session := &model.StudySession{
		UserID:      userID,
		SessionType: in.SessionType,
		TopicID:     in.TopicID,
		StartedAt:   s.Now(),
	}
	if err := s.StudySessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

type EndStudyInput struct {
	ActivitiesCompleted []string `json:"activitiesCompleted"`
	ConceptsLearned     string   `json:"conceptsLearned"`
	QuestionsAsked      string   `json:"questionsAsked"`
	SatisfactionRating  *int     `json:"satisfactionRating"`
}

type StudySessionResult struct {
	Session         *model.StudySession `json:"session"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

// EndStudySession 结束学习会话，时长按分钟计入统计
func (s *ProgressService) EndStudySession(userID, sessionID uint, in *EndStudyInput) (*StudySessionResult, error) {
	if in.SatisfactionRating != nil {
		if err := validRating(*in.SatisfactionRating); err != nil {
			return nil, err
		}
	}
	var activities []byte
	if len(in.ActivitiesCompleted) > 0 {
		raw, err := jsonBytes(in.ActivitiesCompleted)
		if err != nil {
			return nil, err
		}
		activities = raw
	}

	result := &StudySessionResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.StudySessionRepo.WithTx(tx)
		session, err := repo.FindForUser(userID, sessionID)
		if err != nil {
			return notFound(err, util.ErrSessionNotFound)
		}
		if session.EndedAt != nil {
			return util.ErrStudySessionEnded
		}

		now := s.Now()
		session.EndedAt = &now
		session.Duration = int(now.Sub(session.StartedAt).Minutes())
		if session.Duration < 0 {
			session.Duration = 0
		}
		if activities != nil {
			session.ActivitiesCompleted = datatypes.JSON(activities)
		}
		session.ConceptsLearned = in.ConceptsLearned
		session.QuestionsAsked = in.QuestionsAsked
		session.SatisfactionRating = in.SatisfactionRating
		if err := repo.Save(session); err != nil {
			return err
		}
		result.Session = session

		awarded, err := s.Analytics.Record(tx, userID, ActivityEvent{StudyMinutes: session.Duration})
		result.NewAchievements = awarded
		return err
	})
	if err != nil {
		return nil, err
	}
	ObserveAwards(result.NewAchievements)
	return result, nil
}

// StudySessionPage 学习会话列表与汇总
type StudySessionPage struct {
	List         []model.StudySession `json:"list"`
	Total        int64                `json:"total"`
	TotalMinutes int                  `json:"totalMinutes"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
}

func (s *ProgressService) ListStudySessions(userID uint, page, limit int) (*StudySessionPage, error) {
	list, total, err := s.StudySessionRepo.ListByUser(userID, page, limit)
	if err != nil {
		return nil, err
	}
	minutes, err := s.StudySessionRepo.TotalMinutes(userID)
	if err != nil {
		return nil, err
	}
	return &StudySessionPage{List: list, Total: total, TotalMinutes: minutes, Page: page, Limit: limit}, nil
}

type LearningPathInput struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
	TopicIDs    []uint `json:"topicIds"`
}

func (s *ProgressService) ListPaths(userID uint) ([]model.LearningPath, error) {
	return s.PathRepo.ListByUser(userID)
}

func (s *ProgressService) pathTopics(ids []uint) ([]model.Topic, error) {
	if ids == nil {
		return nil, nil
	}
	topics, err := s.TopicRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(topics) != len(uniqueIDs(ids)) {
		return nil, util.ErrTopicNotFound
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return topics, nil
}

func (s *ProgressService) CreatePath(userID uint, in *LearningPathInput) (*model.LearningPath, error) {
	topics, err := s.pathTopics(in.TopicIDs)
	if err != nil {
		return nil, err
	}
	path := &model.LearningPath{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		IsActive:    boolOr(in.IsActive, true),
		Topics:      topics,
	}
	if err := s.PathRepo.Create(path); err != nil {
		return nil, err
	}
	return s.PathRepo.FindForUser(userID, path.ID)
}

func (s *ProgressService) UpdatePath(userID, pathID uint, in *LearningPathInput) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindForUser(userID, pathID)
	if err != nil {
		return nil, notFound(err, util.ErrPathNotFound)
	}
	topics, err := s.pathTopics(in.TopicIDs)
	if err != nil {
		return nil, err
	}

	path.Name = in.Name
	path.Description = in.Description
	path.IsActive = boolOr(in.IsActive, path.IsActive)
	path.Topics = nil
	if err := s.PathRepo.Update(path, topics); err != nil {
		return nil, err
	}
	return s.PathRepo.FindForUser(userID, path.ID)
}

func (s *ProgressService) DeletePath(userID, pathID uint) error {
	path, err := s.PathRepo.FindForUser(userID, pathID)
	if err != nil {
		return notFound(err, util.ErrPathNotFound)
	}
	return s.PathRepo.Delete(path)
}

// Recommended 未完成的启用主题
func (s *ProgressService) Recommended(userID uint) ([]model.Topic, error) {
	return s.TopicRepo.RecommendedFor(userID, util.RecommendedTopicLimit)
}

// DashboardView 学习仪表盘
type DashboardView struct {
	CompletedTopics    int64                    `json:"completedTopics"`
	InProgressTopics   int64                    `json:"inProgressTopics"`
	RecentSessions     []model.StudySession     `json:"recentSessions"`
	RecentAchievements []model.UserAchievement  `json:"recentAchievements"`
	Analytics          *model.LearningAnalytics `json:"analytics"`
}

func (s *ProgressService) Dashboard(userID uint) (*DashboardView, error) {
	completed, err := s.ProgressRepo.CountByStatus(userID, model.StatusCompleted, model.StatusMastered)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.ProgressRepo.CountByStatus(userID, model.StatusInProgress)
	if err != nil {
		return nil, err
	}
	sessions, _, err := s.StudySessionRepo.ListByUser(userID, 1, util.DashboardRecentSize)
	if err != nil {
		return nil, err
	}
	achievements, err := s.AchievementRepo.RecentByUser(userID, util.DashboardRecentSize)
	if err != nil {
		return nil, err
	}
	analytics, err := s.Analytics.Get(userID)
	if err != nil {
		return nil, err
	}

	return &DashboardView{
		CompletedTopics:    completed,
		InProgressTopics:   inProgress,
		RecentSessions:     sessions,
		RecentAchievements: achievements,
		Analytics:          analytics,
	}, nil
}
