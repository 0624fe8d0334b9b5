package service

import (
	"context"
	"fmt"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	reminderKindDaily  = "daily_reminder"
	reminderKindEmail  = "reminder_email"
	reminderKindWeekly = "weekly_report"
)

// ReminderService 学习提醒与每周学习报告
type ReminderService struct {
	UserRepo         *repository.UserRepository
	PreferenceRepo   *repository.PreferenceRepository
	AnalyticsRepo    *repository.AnalyticsRepository
	StudySessionRepo *repository.StudySessionRepository
	Notifications    *NotificationService
	Mailer           Mailer
	Cfg              config.SchedulerConfig
	Now              func() time.Time

	scheduler *gocron.Scheduler
}

func NewReminderService(
	userRepo *repository.UserRepository,
	preferenceRepo *repository.PreferenceRepository,
	analyticsRepo *repository.AnalyticsRepository,
	studySessionRepo *repository.StudySessionRepository,
	notifications *NotificationService,
	mailer Mailer,
	cfg config.SchedulerConfig,
) *ReminderService {
	return &ReminderService{
		UserRepo:         userRepo,
		PreferenceRepo:   preferenceRepo,
		AnalyticsRepo:    analyticsRepo,
		StudySessionRepo: studySessionRepo,
		Notifications:    notifications,
		Mailer:           mailer,
		Cfg:              cfg,
		Now:              time.Now,
	}
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// Start 注册定时任务并异步运行
func (s *ReminderService) Start() error {
	weekday, err := parseWeekday(s.Cfg.WeeklyReport)
	if err != nil {
		return err
	}

	s.scheduler = gocron.NewScheduler(time.Local)
	s.scheduler.SingletonModeAll()

	if _, err := s.scheduler.Every(1).Day().At(s.Cfg.ReminderAt).Do(s.runDaily); err != nil {
		return fmt.Errorf("schedule daily reminders: %w", err)
	}
	if _, err := s.scheduler.Every(1).Week().Weekday(weekday).At(s.Cfg.WeeklyReportAt).Do(s.runWeekly); err != nil {
		return fmt.Errorf("schedule weekly reports: %w", err)
	}

	s.scheduler.StartAsync()
	logger.Log.Info("reminder scheduler started",
		zap.String("reminderAt", s.Cfg.ReminderAt),
		zap.String("weeklyReport", weekday.String()),
		zap.String("weeklyReportAt", s.Cfg.WeeklyReportAt),
	)
	return nil
}

func (s *ReminderService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *ReminderService) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	n, err := s.SendDailyReminders(ctx)
	if err != nil {
		logger.Log.Error("daily reminders failed", zap.Error(err))
		return
	}
	logger.Log.Info("daily reminders sent", zap.Int("count", n))
}

func (s *ReminderService) runWeekly() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	n, err := s.SendWeeklyReports(ctx)
	if err != nil {
		logger.Log.Error("weekly reports failed", zap.Error(err))
		return
	}
	logger.Log.Info("weekly reports sent", zap.Int("count", n))
}

// SendDailyReminders 提醒今日尚未学习的学生，返回提醒人数
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	users, err := s.UserRepo.FindActiveStudents()
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		user := &users[i]
		pref, err := s.PreferenceRepo.FindOrCreate(user.ID)
		if err != nil {
			return sent, err
		}
		if !pref.StudyReminders {
			continue
		}

		a, err := s.AnalyticsRepo.FindOrCreate(user.ID)
		if err != nil {
			return sent, err
		}
		loc, err := loadLocation(pref.Timezone)
		if err != nil {
			loc = time.UTC
		}
		now := s.Now().In(loc)
		if a.LastActivityDate != nil && SameDay(now, *a.LastActivityDate) {
			continue
		}

		message := "You haven't studied today yet. A few minutes of physics keeps your streak alive!"
		if a.CurrentStreak > 1 {
			message = fmt.Sprintf("Keep your %d-day streak going with a quick study session today.", a.CurrentStreak)
		}
		if _, err := s.Notifications.Notify(user.ID, model.NotificationReminder, "Time to study", message, "/dashboard"); err != nil {
			return sent, err
		}
		monitoring.RemindersSent.WithLabelValues(reminderKindDaily).Inc()
		sent++

		if !pref.EmailNotifications {
			continue
		}
		err = s.Mailer.Send(ctx, Message{
			ToName:    user.Name,
			ToAddress: user.Email,
			Subject:   "Time to study",
			PlainText: message,
		})
		if err != nil {
			logger.Log.Warn("send reminder email failed", zap.Uint("userID", user.ID), zap.Error(err))
			continue
		}
		monitoring.RemindersSent.WithLabelValues(reminderKindEmail).Inc()
	}
	return sent, nil
}

// WeeklySummary 每周学习报告内容
type WeeklySummary struct {
	StudyMinutes     int
	TopicsCompleted  int
	QuizzesTaken     int
	AverageQuizScore float64
	CurrentStreak    int
}

func (w WeeklySummary) PlainText(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Study time this week: %d minutes\n", w.StudyMinutes)
	fmt.Fprintf(&b, "Topics completed: %d\n", w.TopicsCompleted)
	fmt.Fprintf(&b, "Quizzes taken: %d (average score %.1f%%)\n", w.QuizzesTaken, w.AverageQuizScore)
	fmt.Fprintf(&b, "Current streak: %d days\n", w.CurrentStreak)
	return b.String()
}

// SendWeeklyReports 向订阅周报的学生发送邮件，返回发送数量
func (s *ReminderService) SendWeeklyReports(ctx context.Context) (int, error) {
	users, err := s.UserRepo.FindActiveStudents()
	if err != nil {
		return 0, err
	}

	since := s.Now().AddDate(0, 0, -7)
	sent := 0
	for i := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		user := &users[i]
		pref, err := s.PreferenceRepo.FindOrCreate(user.ID)
		if err != nil {
			return sent, err
		}
		if !pref.WeeklyProgressReports {
			continue
		}

		a, err := s.AnalyticsRepo.FindOrCreate(user.ID)
		if err != nil {
			return sent, err
		}
		minutes, err := s.StudySessionRepo.MinutesSince(user.ID, since)
		if err != nil {
			return sent, err
		}
		summary := WeeklySummary{
			StudyMinutes:     minutes,
			TopicsCompleted:  a.TopicsCompleted,
			QuizzesTaken:     a.QuizzesTaken,
			AverageQuizScore: a.AverageQuizScore,
			CurrentStreak:    a.CurrentStreak,
		}

		err = s.Mailer.Send(ctx, Message{
			ToName:    user.Name,
			ToAddress: user.Email,
			Subject:   "Your weekly physics progress",
			PlainText: summary.PlainText(user.Name),
		})
		if err != nil {
			logger.Log.Warn("send weekly report failed", zap.Uint("userID", user.ID), zap.Error(err))
			continue
		}
		monitoring.RemindersSent.WithLabelValues(reminderKindWeekly).Inc()
		sent++
	}
	return sent, nil
}
