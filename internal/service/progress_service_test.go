package service

import (
	"fmt"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicProgress(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "lise@example.com")
	topic := f.topic(t, "Energy")

	_, err := f.progress.UpdateProgress(user.ID, topic.ID, &ProgressUpdate{TimeSpent: 5})
	assert.ErrorIs(t, err, util.ErrProgressNotFound)

	p, err := f.progress.StartTopic(user.ID, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, p.Status)
	assert.NotNil(t, p.StartedAt)

	t.Run("update accumulates time", func(t *testing.T) {
		res, err := f.progress.UpdateProgress(user.ID, topic.ID, &ProgressUpdate{UnderstandingLevel: intPtr(3), TimeSpent: 15})
		require.NoError(t, err)
		res, err = f.progress.UpdateProgress(user.ID, topic.ID, &ProgressUpdate{TimeSpent: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, res.Progress.TimeSpent)
		assert.Equal(t, 3, res.Progress.UnderstandingLevel)

		_, err = f.progress.UpdateProgress(user.ID, topic.ID, &ProgressUpdate{UnderstandingLevel: intPtr(6)})
		assert.ErrorIs(t, err, util.ErrInvalidParameter)

		a, err := f.analyticsRepo.FindOrCreate(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, a.TotalStudyTime)
	})

	t.Run("completion counts once", func(t *testing.T) {
		res, err := f.progress.CompleteTopic(user.ID, topic.ID, &CompleteTopicInput{})
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, res.Progress.Status)
		require.Len(t, res.NewAchievements, 1)
		assert.Equal(t, "First Steps", res.NewAchievements[0].Name)

		res, err = f.progress.CompleteTopic(user.ID, topic.ID, &CompleteTopicInput{UnderstandingLevel: intPtr(5)})
		require.NoError(t, err)
		assert.Equal(t, model.StatusMastered, res.Progress.Status)
		assert.Empty(t, res.NewAchievements)

		a, err := f.analyticsRepo.FindOrCreate(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, a.TopicsCompleted)
	})

	t.Run("inactive topic cannot be started", func(t *testing.T) {
		hidden := f.topic(t, "Hidden Topic")
		require.NoError(t, f.db.Model(hidden).Update("is_active", false).Error)
		_, err := f.progress.StartTopic(user.ID, hidden.ID)
		assert.ErrorIs(t, err, util.ErrTopicNotFound)
	})
}

func TestStudySession(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "emmy@example.com")

	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	now := start
	f.progress.Now = func() time.Time { return now }

	_, err := f.progress.StartStudySession(user.ID, &StartStudyInput{SessionType: "nap"})
	assert.ErrorIs(t, err, util.ErrInvalidParameter)

	session, err := f.progress.StartStudySession(user.ID, &StartStudyInput{SessionType: model.SessionTopicStudy})
	require.NoError(t, err)

	now = start.Add(42*time.Minute + 30*time.Second)
	res, err := f.progress.EndStudySession(user.ID, session.ID, &EndStudyInput{
		ActivitiesCompleted: []string{"read notes", "watched video"},
		SatisfactionRating:  intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, res.Session.Duration)
	assert.JSONEq(t, `["read notes","watched video"]`, string(res.Session.ActivitiesCompleted))

	_, err = f.progress.EndStudySession(user.ID, session.ID, &EndStudyInput{})
	assert.ErrorIs(t, err, util.ErrStudySessionEnded)

	page, err := f.progress.ListStudySessions(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 42, page.TotalMinutes)
}

func topicIDs(topics []model.Topic) []uint {
	ids := make([]uint, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestLearningPaths(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "niels@example.com")
	other := f.student(t, "werner@example.com")
	kinematics := f.topic(t, "Kinematics")
	dynamics := f.topic(t, "Dynamics")

	path, err := f.progress.CreatePath(user.ID, &LearningPathInput{Name: "Mechanics", TopicIDs: []uint{kinematics.ID, dynamics.ID}})
	require.NoError(t, err)
	assert.True(t, path.IsActive)
	assert.ElementsMatch(t, []uint{kinematics.ID, dynamics.ID}, topicIDs(path.Topics))

	_, err = f.progress.CreatePath(user.ID, &LearningPathInput{Name: "Broken", TopicIDs: []uint{kinematics.ID, 9999}})
	assert.ErrorIs(t, err, util.ErrTopicNotFound)

	t.Run("update replaces topics", func(t *testing.T) {
		inactive := false
		updated, err := f.progress.UpdatePath(user.ID, path.ID, &LearningPathInput{Name: "Dynamics only", IsActive: &inactive, TopicIDs: []uint{dynamics.ID}})
		require.NoError(t, err)
		assert.Equal(t, "Dynamics only", updated.Name)
		assert.False(t, updated.IsActive)
		assert.Equal(t, []uint{dynamics.ID}, topicIDs(updated.Topics))

		updated, err = f.progress.UpdatePath(user.ID, path.ID, &LearningPathInput{Name: "Dynamics only"})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.Len(t, updated.Topics, 1, "omitted topic list keeps the current topics")

		updated, err = f.progress.UpdatePath(user.ID, path.ID, &LearningPathInput{Name: "Empty", TopicIDs: []uint{}})
		require.NoError(t, err)
		assert.Empty(t, updated.Topics)
	})

	t.Run("paths are private", func(t *testing.T) {
		_, err := f.progress.UpdatePath(other.ID, path.ID, &LearningPathInput{Name: "Mine"})
		assert.ErrorIs(t, err, util.ErrPathNotFound)
		assert.ErrorIs(t, f.progress.DeletePath(other.ID, path.ID), util.ErrPathNotFound)

		paths, err := f.progress.ListPaths(other.ID)
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	paths, err := f.progress.ListPaths(user.ID)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	require.NoError(t, f.progress.DeletePath(user.ID, path.ID))
	assert.ErrorIs(t, f.progress.DeletePath(user.ID, path.ID), util.ErrPathNotFound)
	paths, err = f.progress.ListPaths(user.ID)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestRecommendedTopics(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "paul@example.com")

	var topics []*model.Topic
	for i := 0; i < 13; i++ {
		topics = append(topics, f.topic(t, fmt.Sprintf("Topic %02d", i)))
	}
	_, err := f.progress.StartTopic(user.ID, topics[0].ID)
	require.NoError(t, err)
	_, err = f.progress.CompleteTopic(user.ID, topics[0].ID, &CompleteTopicInput{})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(topics[1]).Update("is_active", false).Error)
	_, err = f.progress.StartTopic(user.ID, topics[2].ID)
	require.NoError(t, err)

	got, err := f.progress.Recommended(user.ID)
	require.NoError(t, err)
	require.Len(t, got, util.RecommendedTopicLimit)
	assert.Equal(t, topics[2].ID, got[0].ID, "in-progress topics are still recommended")
	assert.NotContains(t, topicIDs(got), topics[0].ID)
	assert.NotContains(t, topicIDs(got), topics[1].ID)

	fresh := f.student(t, "max@example.com")
	got, err = f.progress.Recommended(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, topics[0].ID, got[0].ID)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "erwin@example.com")
	done := f.topic(t, "Optics")
	started := f.topic(t, "Heat")

	start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	now := start
	f.progress.Now = func() time.Time { return now }

	var last uint
	for i := 0; i < 6; i++ {
		now = start.Add(time.Duration(i) * time.Hour)
		s, err := f.progress.StartStudySession(user.ID, &StartStudyInput{SessionType: model.SessionTopicStudy})
		require.NoError(t, err)
		now = now.Add(20 * time.Minute)
		_, err = f.progress.EndStudySession(user.ID, s.ID, &EndStudyInput{})
		require.NoError(t, err)
		last = s.ID
	}

	_, err := f.progress.StartTopic(user.ID, done.ID)
	require.NoError(t, err)
	_, err = f.progress.CompleteTopic(user.ID, done.ID, &CompleteTopicInput{})
	require.NoError(t, err)
	_, err = f.progress.StartTopic(user.ID, started.ID)
	require.NoError(t, err)

	view, err := f.progress.Dashboard(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.CompletedTopics)
	assert.Equal(t, int64(1), view.InProgressTopics)
	require.Len(t, view.RecentSessions, util.DashboardRecentSize)
	assert.Equal(t, last, view.RecentSessions[0].ID)
	require.Len(t, view.RecentAchievements, 1)
	assert.Equal(t, "First Steps", view.RecentAchievements[0].Achievement.Name)
	require.NotNil(t, view.Analytics)
	assert.Equal(t, 1, view.Analytics.TopicsCompleted)
}
