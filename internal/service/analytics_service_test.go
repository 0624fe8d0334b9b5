package service

import (
	"context"
	"encoding/json"
	"physics_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEvent(t *testing.T) {
	day := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	a := &model.LearningAnalytics{}

	ApplyEvent(a, ActivityEvent{QuizScore: floatPtr(80), QuizPassed: true}, day)
	ApplyEvent(a, ActivityEvent{QuizScore: floatPtr(40)}, day)
	ApplyEvent(a, ActivityEvent{QuizScore: floatPtr(90), QuizPassed: true}, day.AddDate(0, 0, 1))

	assert.Equal(t, 3, a.QuizzesTaken)
	assert.Equal(t, 2, a.QuizzesPassed)
	assert.InDelta(t, 70.0, a.AverageQuizScore, 0.0001)
	assert.Equal(t, 90.0, a.BestQuizScore)
	assert.Equal(t, 2, a.CurrentStreak)
	assert.Equal(t, 2, a.LongestStreak)

	ApplyEvent(a, ActivityEvent{TopicCompleted: true, SimulationCompleted: true, StudyMinutes: 30}, day.AddDate(0, 0, 5))
	assert.Equal(t, 1, a.TopicsCompleted)
	assert.Equal(t, 1, a.SimulationsExplored)
	assert.Equal(t, 30, a.TotalStudyTime)
	assert.Equal(t, 1, a.CurrentStreak)
	assert.Equal(t, 2, a.LongestStreak)
	require.NotNil(t, a.LastActivityDate)
	assert.True(t, a.LastActivityDate.Equal(day.AddDate(0, 0, 5)))
}

func TestLearningVelocity(t *testing.T) {
	joined := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3.0, LearningVelocity(3, joined, joined.Add(72*time.Hour)))
	assert.Equal(t, 1.5, LearningVelocity(6, joined, joined.AddDate(0, 0, 28)))
	assert.Equal(t, 0.0, LearningVelocity(0, joined, joined.AddDate(0, 0, 70)))
}

func TestStreakAchievement(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "chien@example.com")

	day := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	var names []string
	for i := 0; i < 8; i++ {
		now := day.AddDate(0, 0, i)
		f.analytics.Now = func() time.Time { return now }
		awarded, err := f.analytics.Record(f.db, user.ID, ActivityEvent{StudyMinutes: 10})
		require.NoError(t, err)
		for _, a := range awarded {
			names = append(names, a.Name)
		}
		if i == 6 {
			assert.Equal(t, []string{"Learning Streak"}, names)
		}
	}
	assert.Equal(t, []string{"Learning Streak"}, names)

	a, err := f.analytics.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, a.CurrentStreak)
	assert.Equal(t, 80, a.TotalStudyTime)

	u, err := f.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, u.XP)

	earned, err := f.achievement.UserAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.True(t, earned[0].EarnedAt.Equal(day.AddDate(0, 0, 6)), "earned at %v", earned[0].EarnedAt)
}

func TestAnalyticsView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.student(t, "lise@example.com")

	statics := f.topic(t, "Statics")
	fluids := f.topic(t, "Fluids")
	circuits := f.topic(t, "Circuits")
	upper, err := f.catalogAdmin.CreateGrade(ctx, &GradeInput{Name: "Grade 10", Order: 10})
	require.NoError(t, err)
	nuclear, err := f.catalogAdmin.CreateTopic(ctx, &TopicInput{Title: "Nuclear Physics", GradeID: upper.ID})
	require.NoError(t, err)

	minutes := map[uint]int{statics.ID: 30, fluids.ID: 10, circuits.ID: 5, nuclear.ID: 20}
	for _, id := range []uint{statics.ID, fluids.ID, circuits.ID, nuclear.ID} {
		_, err := f.progress.StartTopic(user.ID, id)
		require.NoError(t, err)
		_, err = f.progress.UpdateProgress(user.ID, id, &ProgressUpdate{TimeSpent: minutes[id]})
		require.NoError(t, err)
	}
	_, err = f.progress.CompleteTopic(user.ID, statics.ID, &CompleteTopicInput{})
	require.NoError(t, err)

	view, err := f.analytics.View(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 65, view.Analytics.TotalStudyTime)
	assert.Equal(t, 1, view.Analytics.TopicsCompleted)

	require.Len(t, view.ProgressByGrade, 2)
	assert.Equal(t, "Grade 9", view.ProgressByGrade[0].GradeName)
	assert.Equal(t, int64(3), view.ProgressByGrade[0].Total)
	assert.Equal(t, int64(1), view.ProgressByGrade[0].Completed)
	assert.Equal(t, "Grade 10", view.ProgressByGrade[1].GradeName)
	assert.Equal(t, int64(1), view.ProgressByGrade[1].Total)
	assert.Zero(t, view.ProgressByGrade[1].Completed)

	var top []string
	for _, fav := range view.FavoriteTopics {
		top = append(top, fav.Title)
	}
	assert.Equal(t, []string{"Statics", "Nuclear Physics", "Fluids"}, top)

	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(view.Analytics.FavoriteTopics, &stored))
	assert.Len(t, stored, 3)

	require.Len(t, view.Achievements, 1)
	assert.Equal(t, "First Steps", view.Achievements[0].Achievement.Name)
}
