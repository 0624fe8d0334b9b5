package service

import (
	"physics_edu_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAttempt(t *testing.T) {
	assert.Equal(t, 0.0, ScoreAttempt(0, 0))
	assert.Equal(t, 0.0, ScoreAttempt(3, 0))
	assert.Equal(t, 50.0, ScoreAttempt(2, 4))
	assert.Equal(t, 100.0, ScoreAttempt(4, 4))
	assert.InDelta(t, 100.0/3, ScoreAttempt(1, 3), 1e-9)

	t.Run("bounded", func(t *testing.T) {
		for possible := 1; possible <= 10; possible++ {
			for earned := 0; earned <= possible; earned++ {
				s := ScoreAttempt(float64(earned), possible)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0)
				assert.Equal(t, 100*float64(earned)/float64(possible), s)
			}
		}
		assert.Equal(t, 100.0, ScoreAttempt(12, 10))
		assert.Equal(t, 0.0, ScoreAttempt(-1, 10))
	})
}

func TestIsPassed(t *testing.T) {
	assert.True(t, IsPassed(70, 70))
	assert.True(t, IsPassed(70.5, 70))
	assert.False(t, IsPassed(69.99, 70))
	assert.True(t, IsPassed(0, 0))
}

func answer(id uint, text string, correct bool, order int) model.Answer {
	a := model.Answer{AnswerText: text, IsCorrect: correct, Order: order}
	a.ID = id
	return a
}

func TestGradeResponse(t *testing.T) {
	t.Run("multiple choice needs exact set", func(t *testing.T) {
		q := &model.Question{QuestionType: model.QuestionMultipleChoice, Points: 2, Answers: []model.Answer{
			answer(1, "a", true, 0), answer(2, "b", false, 0), answer(3, "c", true, 0),
		}}
		ok, pts := GradeResponse(q, []uint{3, 1}, "")
		assert.True(t, ok)
		assert.Equal(t, 2.0, pts)

		ok, pts = GradeResponse(q, []uint{1}, "")
		assert.False(t, ok)
		assert.Equal(t, 0.0, pts)

		ok, _ = GradeResponse(q, []uint{1, 2, 3}, "")
		assert.False(t, ok)

		ok, _ = GradeResponse(q, []uint{1, 1}, "")
		assert.False(t, ok)
	})

	t.Run("true false", func(t *testing.T) {
		q := &model.Question{QuestionType: model.QuestionTrueFalse, Points: 1, Answers: []model.Answer{
			answer(10, "True", false, 0), answer(11, "False", true, 1),
		}}
		ok, _ := GradeResponse(q, []uint{11}, "")
		assert.True(t, ok)
		ok, _ = GradeResponse(q, []uint{10}, "")
		assert.False(t, ok)
		ok, _ = GradeResponse(q, nil, "")
		assert.False(t, ok)
	})

	t.Run("ordering follows answer order", func(t *testing.T) {
		q := &model.Question{QuestionType: model.QuestionOrdering, Points: 3, Answers: []model.Answer{
			answer(5, "third", true, 3), answer(6, "first", true, 1), answer(7, "second", true, 2),
		}}
		ok, pts := GradeResponse(q, []uint{6, 7, 5}, "")
		assert.True(t, ok)
		assert.Equal(t, 3.0, pts)
		ok, _ = GradeResponse(q, []uint{5, 6, 7}, "")
		assert.False(t, ok)
	})

	t.Run("fill blank ignores case and spacing", func(t *testing.T) {
		q := &model.Question{QuestionType: model.QuestionFillBlank, Points: 1, Answers: []model.Answer{
			answer(1, "Newton", true, 0),
		}}
		ok, _ := GradeResponse(q, nil, "  newton ")
		assert.True(t, ok)
		ok, _ = GradeResponse(q, nil, "joule")
		assert.False(t, ok)
		ok, _ = GradeResponse(q, nil, "")
		assert.False(t, ok)
	})

	t.Run("short answer without key accepts any text", func(t *testing.T) {
		q := &model.Question{QuestionType: model.QuestionShortAnswer, Points: 4}
		ok, pts := GradeResponse(q, nil, "energy is conserved")
		assert.True(t, ok)
		assert.Equal(t, 4.0, pts)
		ok, _ = GradeResponse(q, nil, "   ")
		assert.False(t, ok)
	})

	t.Run("calculation compares numbers", func(t *testing.T) {
		q := &model.Question{QuestionType: model.QuestionCalculation, Points: 2, Answers: []model.Answer{
			answer(1, "9.8", true, 0),
		}}
		ok, _ := GradeResponse(q, nil, "9.80")
		assert.True(t, ok)
		ok, _ = GradeResponse(q, nil, "9.81")
		assert.False(t, ok)
		ok, _ = GradeResponse(q, nil, "nine")
		assert.False(t, ok)
	})
}
