package service

import (
	"context"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db *gorm.DB

	users         *repository.UserRepository
	preferences   *repository.PreferenceRepository
	notifications *repository.NotificationRepository
	achievements  *repository.AchievementRepository
	analyticsRepo *repository.AnalyticsRepository
	sessions      *repository.StudySessionRepository

	catalogAdmin    *CatalogAdminService
	quizAdmin       *QuizAdminService
	quiz            *QuizService
	simulationAdmin *SimulationAdminService
	simulation      *SimulationService
	progress        *ProgressService
	analytics       *AnalyticsService
	achievement     *AchievementService
	report          *ReportService
	notify          *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		db:            db,
		users:         repository.NewUserRepository(db),
		preferences:   repository.NewPreferenceRepository(db),
		notifications: repository.NewNotificationRepository(db),
		achievements:  repository.NewAchievementRepository(db),
		analyticsRepo: repository.NewAnalyticsRepository(db),
		sessions:      repository.NewStudySessionRepository(db),
	}
	grades := repository.NewGradeRepository(db)
	topics := repository.NewTopicRepository(db)
	resources := repository.NewTopicResourceRepository(db)
	quizzes := repository.NewQuizRepository(db)
	sims := repository.NewSimulationRepository(db)
	progress := repository.NewProgressRepository(db)

	attempts := repository.NewAttemptRepository(db)
	f.achievement = NewAchievementService(f.achievements, f.users, f.preferences, f.notifications)
	f.analytics = NewAnalyticsService(db, f.analyticsRepo, progress, f.sessions, f.users, f.achievement)
	f.report = NewReportService(quizzes, attempts, f.analyticsRepo, f.users)
	f.notify = NewNotificationService(f.notifications, f.preferences)

	cache := NewCatalogCache(nil, 0)
	f.catalogAdmin = NewCatalogAdminService(db, grades, topics, resources, cache)
	f.quizAdmin = NewQuizAdminService(db, quizzes, topics)
	f.quiz = NewQuizService(db, quizzes, attempts, f.analytics)
	f.simulationAdmin = NewSimulationAdminService(db, sims, topics)
	f.simulation = NewSimulationService(db, sims, repository.NewSimulationSessionRepository(db), f.analytics)
	f.progress = NewProgressService(db, progress, topics, f.sessions, repository.NewLearningPathRepository(db), f.achievements, f.analytics)
	return f
}

func (f *fixture) student(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Student " + email, Email: email, Password: "x", Role: model.Student}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) topic(t *testing.T, title string) *model.Topic {
	t.Helper()
	ctx := context.Background()
	grade, err := f.catalogAdmin.GradeRepo.FindByName("Grade 9")
	require.NoError(t, err)
	if grade == nil {
		grade, err = f.catalogAdmin.CreateGrade(ctx, &GradeInput{Name: "Grade 9"})
		require.NoError(t, err)
	}
	topic, err := f.catalogAdmin.CreateTopic(ctx, &TopicInput{Title: title, GradeID: grade.ID})
	require.NoError(t, err)
	return topic
}

func (f *fixture) seedService() *SeedService {
	return NewSeedService(f.catalogAdmin, f.quizAdmin, f.simulationAdmin)
}

func (f *fixture) reminders(mailer Mailer) *ReminderService {
	return NewReminderService(f.users, f.preferences, f.analyticsRepo, f.sessions, f.notify, mailer, config.SchedulerConfig{
		ReminderAt:     "17:00",
		WeeklyReport:   "sunday",
		WeeklyReportAt: "18:00",
	})
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
