package service

import (
	"encoding/json"
	"math"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityEvent 一次学习活动对统计的增量
type ActivityEvent struct {
	TopicCompleted      bool
	QuizScore           *float64
	QuizPassed          bool
	SimulationCompleted bool
	StudyMinutes        int
}

// ApplyEvent 将学习活动累加到统计记录
func ApplyEvent(a *model.LearningAnalytics, ev ActivityEvent, now time.Time) {
	if ev.TopicCompleted {
		a.TopicsCompleted++
	}
	if ev.QuizScore != nil {
		a.QuizzesTaken++
		n := float64(a.QuizzesTaken)
		a.AverageQuizScore = (a.AverageQuizScore*(n-1) + *ev.QuizScore) / n
		if *ev.QuizScore > a.BestQuizScore {
			a.BestQuizScore = *ev.QuizScore
		}
		if ev.QuizPassed {
			a.QuizzesPassed++
		}
	}
	if ev.SimulationCompleted {
		a.SimulationsExplored++
	}
	if ev.StudyMinutes > 0 {
		a.TotalStudyTime += ev.StudyMinutes
	}

	a.CurrentStreak = NextStreak(a.CurrentStreak, a.LastActivityDate, now)
	if a.CurrentStreak > a.LongestStreak {
		a.LongestStreak = a.CurrentStreak
	}
	last := now
	a.LastActivityDate = &last
	a.LastUpdated = now
}

// LearningVelocity 注册以来每周完成主题数
func LearningVelocity(topicsCompleted int, since, now time.Time) float64 {
	weeks := now.Sub(since).Hours() / (24 * 7)
	if weeks < 1 {
		weeks = 1
	}
	return math.Round(float64(topicsCompleted)/weeks*100) / 100
}

type AnalyticsService struct {
	DB               *gorm.DB
	AnalyticsRepo    *repository.AnalyticsRepository
	ProgressRepo     *repository.ProgressRepository
	StudySessionRepo *repository.StudySessionRepository
	UserRepo         *repository.UserRepository
	Achievements     *AchievementService
	Now              func() time.Time
}

func NewAnalyticsService(
	db *gorm.DB,
	analyticsRepo *repository.AnalyticsRepository,
	progressRepo *repository.ProgressRepository,
	studySessionRepo *repository.StudySessionRepository,
	userRepo *repository.UserRepository,
	achievements *AchievementService,
) *AnalyticsService {
	return &AnalyticsService{
		DB:               db,
		AnalyticsRepo:    analyticsRepo,
		ProgressRepo:     progressRepo,
		StudySessionRepo: studySessionRepo,
		UserRepo:         userRepo,
		Achievements:     achievements,
		Now:              time.Now,
	}
}

// Record 在事务内更新统计并评估成就，返回新获得的成就
func (s *AnalyticsService) Record(tx *gorm.DB, userID uint, ev ActivityEvent) ([]model.Achievement, error) {
	repo := s.AnalyticsRepo.WithTx(tx)
	a, err := repo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	ApplyEvent(a, ev, now)

	user, err := s.UserRepo.WithTx(tx).FindByID(userID)
	if err != nil {
		return nil, err
	}
	a.LearningVelocity = LearningVelocity(a.TopicsCompleted, user.CreatedAt, now)

	if ev.StudyMinutes > 0 {
		s.refreshFavorites(tx, a)
	}

	if err := repo.Save(a); err != nil {
		return nil, err
	}

	return s.Achievements.Evaluate(tx, userID, a, now)
}

// refreshFavorites 失败时保留原有数据，不影响本次统计
func (s *AnalyticsService) refreshFavorites(tx *gorm.DB, a *model.LearningAnalytics) {
	fav, err := s.ProgressRepo.WithTx(tx).TopTopicsByTime(a.UserID, util.FavoriteTopicCount)
	if err != nil {
		logger.Log.Warn("load favorite topics failed", zap.Uint("userID", a.UserID), zap.Error(err))
		return
	}
	raw, err := json.Marshal(fav)
	if err != nil {
		logger.Log.Warn("encode favorite topics failed", zap.Uint("userID", a.UserID), zap.Error(err))
		return
	}
	a.FavoriteTopics = datatypes.JSON(raw)
}

// AnalyticsView 学习分析页
type AnalyticsView struct {
	Analytics       *model.LearningAnalytics   `json:"analytics"`
	ProgressByGrade []repository.GradeProgress `json:"progressByGrade"`
	StudyTimeByType []repository.TypeTime      `json:"studyTimeByType"`
	FavoriteTopics  []repository.TopicTime     `json:"favoriteTopics"`
	Achievements    []model.UserAchievement    `json:"achievements"`
}

func (s *AnalyticsService) Get(userID uint) (*model.LearningAnalytics, error) {
	return s.AnalyticsRepo.FindOrCreate(userID)
}

func (s *AnalyticsService) View(userID uint) (*AnalyticsView, error) {
	a, err := s.AnalyticsRepo.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	a.LearningVelocity = LearningVelocity(a.TopicsCompleted, user.CreatedAt, s.Now())

	byGrade, err := s.ProgressRepo.ProgressByGrade(userID)
	if err != nil {
		return nil, err
	}
	byType, err := s.StudySessionRepo.MinutesByType(userID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.ProgressRepo.TopTopicsByTime(userID, util.FavoriteTopicCount)
	if err != nil {
		return nil, err
	}
	achievements, err := s.Achievements.AchievementRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	return &AnalyticsView{
		Analytics:       a,
		ProgressByGrade: byGrade,
		StudyTimeByType: byType,
		FavoriteTopics:  favorites,
		Achievements:    achievements,
	}, nil
}
