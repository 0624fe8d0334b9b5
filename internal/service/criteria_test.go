package service

import (
	"physics_edu_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria([]byte(`{"quizzes_passed": 5, "quiz_score": 90}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{CriterionQuizzesPassed: 5, CriterionQuizScore: 90}, c)

	c, err = ParseCriteria(nil)
	require.NoError(t, err)
	assert.Empty(t, c)

	_, err = ParseCriteria([]byte(`{"quizzes_passed": "five"}`))
	assert.Error(t, err)
}

func TestCriteriaMet(t *testing.T) {
	stats := CriteriaStats(&model.LearningAnalytics{
		TopicsCompleted: 3,
		QuizzesPassed:   5,
		BestQuizScore:   100,
		CurrentStreak:   7,
	})

	assert.True(t, CriteriaMet(map[string]float64{CriterionTopicsCompleted: 3}, stats))
	assert.True(t, CriteriaMet(map[string]float64{CriterionQuizzesPassed: 5, CriterionQuizScore: 100}, stats))
	assert.False(t, CriteriaMet(map[string]float64{CriterionQuizzesPassed: 5, CriterionStreakDays: 8}, stats))
	assert.False(t, CriteriaMet(map[string]float64{}, stats))
	assert.False(t, CriteriaMet(map[string]float64{"unknown": 0}, stats))
}

func TestValidCriteria(t *testing.T) {
	assert.True(t, ValidCriteria(map[string]float64{CriterionStudyMinutes: 600}))
	assert.False(t, ValidCriteria(map[string]float64{"logins": 1}))
	assert.False(t, ValidCriteria(nil))
}
