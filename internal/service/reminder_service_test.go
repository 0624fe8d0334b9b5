package service

import (
	"context"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := time.Date(2026, 4, 8, 17, 0, 0, 0, time.UTC)

	active := f.student(t, "active@example.com")
	idle := f.student(t, "idle@example.com")
	muted := f.student(t, "muted@example.com")
	disabled := f.student(t, "disabled@example.com")
	require.NoError(t, f.users.SetDisabled(disabled.ID, true))
	require.NoError(t, f.users.Create(&model.User{Name: "Teacher", Email: "teacher@example.com", Password: "x", Role: model.Teacher}))

	f.analytics.Now = func() time.Time { return today.Add(-8 * time.Hour) }
	_, err := f.analytics.Record(f.db, active.ID, ActivityEvent{StudyMinutes: 20})
	require.NoError(t, err)

	pref, err := f.preferences.FindOrCreate(muted.ID)
	require.NoError(t, err)
	pref.StudyReminders = false
	pref.WeeklyProgressReports = false
	require.NoError(t, f.preferences.Save(pref))

	mailer := &ConsoleMailer{}
	reminders := f.reminders(mailer)
	reminders.Now = func() time.Time { return today }

	t.Run("daily reminders skip students who studied today", func(t *testing.T) {
		n, err := reminders.SendDailyReminders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		sent := mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, idle.Email, sent[0].ToAddress)

		list, total, err := f.notify.List(idle.ID, true, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, model.NotificationReminder, list[0].NotificationType)

		_, total, err = f.notify.List(active.ID, true, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("weekly reports", func(t *testing.T) {
		before := len(mailer.Sent())
		n, err := reminders.SendWeeklyReports(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		sent := mailer.Sent()[before:]
		require.Len(t, sent, 2)
		assert.Equal(t, active.Email, sent[0].ToAddress)
		assert.Contains(t, sent[0].PlainText, "Current streak: 1 days")
		assert.Equal(t, idle.Email, sent[1].ToAddress)
	})
}

func TestReminderStartRejectsBadWeekday(t *testing.T) {
	f := newFixture(t)
	r := f.reminders(&ConsoleMailer{})
	r.Cfg = config.SchedulerConfig{ReminderAt: "17:00", WeeklyReport: "someday", WeeklyReportAt: "18:00"}
	assert.Error(t, r.Start())
}

func TestWeeklySummaryPlainText(t *testing.T) {
	text := WeeklySummary{StudyMinutes: 95, TopicsCompleted: 2, QuizzesTaken: 3, AverageQuizScore: 81.26, CurrentStreak: 4}.PlainText("Ada")
	assert.Contains(t, text, "Hi Ada,")
	assert.Contains(t, text, "Study time this week: 95 minutes")
	assert.Contains(t, text, "Quizzes taken: 3 (average score 81.3%)")
	assert.Contains(t, text, "Current streak: 4 days")
}
