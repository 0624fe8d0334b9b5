package service

import (
	"context"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuiz(t *testing.T, f *fixture, topicID uint, maxAttempts, timeLimit int) *model.Quiz {
	t.Helper()
	quiz, err := f.quizAdmin.Create(&QuizInput{
		TopicID:     topicID,
		Title:       "Forces check",
		TimeLimit:   timeLimit,
		MaxAttempts: intPtr(maxAttempts),
		Questions: []QuestionInput{
			{
				QuestionType: model.QuestionTrueFalse,
				QuestionText: "Force is measured in newtons.",
				Answers: []AnswerInput{
					{AnswerText: "True", IsCorrect: true},
					{AnswerText: "False"},
				},
			},
			{
				QuestionType: model.QuestionMultipleChoice,
				QuestionText: "Which quantity is a vector?",
				Points:       3,
				Answers: []AnswerInput{
					{AnswerText: "Mass"},
					{AnswerText: "Velocity", IsCorrect: true},
					{AnswerText: "Temperature"},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)
	return quiz
}

func pick(q *model.Question, correct bool) []uint {
	var ids []uint
	for _, a := range q.Answers {
		if a.IsCorrect == correct {
			ids = append(ids, a.ID)
			if !correct {
				break
			}
		}
	}
	return ids
}

func TestQuizAttemptFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.student(t, "ada@example.com")
	topic := f.topic(t, "Newton's Laws")
	quiz := newQuiz(t, f, topic.ID, 2, 0)

	t.Run("perfect score passes and awards once", func(t *testing.T) {
		attempt, err := f.quiz.StartAttempt(ctx, user.ID, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, attempt.AttemptNumber)

		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			_, err := f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: q.ID, SelectedAnswerIDs: pick(q, true)})
			require.NoError(t, err)
		}

		res, err := f.quiz.CompleteAttempt(ctx, user.ID, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, res.Score)
		assert.True(t, res.IsPassed)
		assert.Equal(t, 4, res.PointsPossible)
		require.Len(t, res.NewAchievements, 1)
		assert.Equal(t, "Quiz Master", res.NewAchievements[0].Name)

		_, err = f.quiz.CompleteAttempt(ctx, user.ID, attempt.ID)
		assert.ErrorIs(t, err, util.ErrAttemptCompleted)

		u, err := f.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, u.XP)

		unread, err := f.notifications.UnreadCount(user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)
	})

	t.Run("failing attempt updates average", func(t *testing.T) {
		attempt, err := f.quiz.StartAttempt(ctx, user.ID, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, attempt.AttemptNumber)

		q := &quiz.Questions[0]
		_, err = f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: q.ID, SelectedAnswerIDs: pick(q, false)})
		require.NoError(t, err)

		res, err := f.quiz.CompleteAttempt(ctx, user.ID, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.False(t, res.IsPassed)
		assert.Empty(t, res.NewAchievements)

		a, err := f.analyticsRepo.FindOrCreate(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, a.QuizzesTaken)
		assert.Equal(t, 1, a.QuizzesPassed)
		assert.InDelta(t, 50.0, a.AverageQuizScore, 0.001)
		assert.Equal(t, 100.0, a.BestQuizScore)
	})

	t.Run("attempt limit", func(t *testing.T) {
		_, err := f.quiz.StartAttempt(ctx, user.ID, quiz.ID)
		assert.ErrorIs(t, err, util.ErrAttemptLimitReached)

		detail, err := f.quiz.Detail(quiz.ID, user.ID)
		require.NoError(t, err)
		assert.False(t, detail.CanAttempt)
		assert.Equal(t, 0, detail.AttemptsRemaining)
		require.NotNil(t, detail.BestScore)
		assert.Equal(t, 100.0, *detail.BestScore)
	})

	t.Run("quiz master is not awarded twice", func(t *testing.T) {
		mine, err := f.achievements.FindByUserID(user.ID)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})
}

func TestSubmitResponseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.student(t, "grace@example.com")
	topic := f.topic(t, "Kinematics")
	quiz := newQuiz(t, f, topic.ID, 0, 5)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	now := start
	f.quiz.Now = func() time.Time { return now }

	attempt, err := f.quiz.StartAttempt(ctx, user.ID, quiz.ID)
	require.NoError(t, err)
	tf, mc := &quiz.Questions[0], &quiz.Questions[1]

	t.Run("answer from another question", func(t *testing.T) {
		_, err := f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: tf.ID, SelectedAnswerIDs: pick(mc, true)})
		assert.ErrorIs(t, err, util.ErrInvalidParameter)
	})

	t.Run("unknown question", func(t *testing.T) {
		_, err := f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: 9999})
		assert.ErrorIs(t, err, util.ErrQuestionNotFound)
	})

	t.Run("re-answer replaces earlier response", func(t *testing.T) {
		_, err := f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: tf.ID, SelectedAnswerIDs: pick(tf, false)})
		require.NoError(t, err)
		res, err := f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: tf.ID, SelectedAnswerIDs: pick(tf, true)})
		require.NoError(t, err)
		require.NotNil(t, res.IsCorrect)
		assert.True(t, *res.IsCorrect)

		responses, err := f.quiz.AttemptRepo.ListResponses(attempt.ID)
		require.NoError(t, err)
		assert.Len(t, responses, 1)
	})

	t.Run("time limit", func(t *testing.T) {
		now = start.Add(6 * time.Minute)
		_, err := f.quiz.SubmitResponse(user.ID, attempt.ID, &ResponseInput{QuestionID: mc.ID, SelectedAnswerIDs: pick(mc, true)})
		assert.ErrorIs(t, err, util.ErrTimeLimitExceeded)

		res, err := f.quiz.CompleteAttempt(ctx, user.ID, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 25.0, res.Score)
		assert.False(t, res.IsPassed)
		assert.Equal(t, 360, res.Attempt.TimeTaken)
	})

	t.Run("other user cannot submit", func(t *testing.T) {
		other := f.student(t, "other@example.com")
		_, err := f.quiz.SubmitResponse(other.ID, attempt.ID, &ResponseInput{QuestionID: tf.ID})
		assert.ErrorIs(t, err, util.ErrAttemptNotFound)
	})
}

func TestBuildQuestions(t *testing.T) {
	tests := []struct {
		name  string
		input QuestionInput
		ok    bool
	}{
		{
			name:  "unknown type",
			input: QuestionInput{QuestionType: "essay", QuestionText: "?"},
		},
		{
			name: "multiple choice without correct answer",
			input: QuestionInput{QuestionType: model.QuestionMultipleChoice, QuestionText: "?", Answers: []AnswerInput{
				{AnswerText: "a"}, {AnswerText: "b"},
			}},
		},
		{
			name: "true false with three answers",
			input: QuestionInput{QuestionType: model.QuestionTrueFalse, QuestionText: "?", Answers: []AnswerInput{
				{AnswerText: "True", IsCorrect: true}, {AnswerText: "False"}, {AnswerText: "Maybe"},
			}},
		},
		{
			name:  "negative points",
			input: QuestionInput{QuestionType: model.QuestionShortAnswer, QuestionText: "?", Points: -1},
		},
		{
			name:  "short answer",
			input: QuestionInput{QuestionType: model.QuestionShortAnswer, QuestionText: "?"},
			ok:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := BuildQuestions([]QuestionInput{tt.input})
			if !tt.ok {
				assert.ErrorIs(t, err, util.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			require.Len(t, questions, 1)
			assert.Equal(t, 1, questions[0].Points)
			assert.Equal(t, 1, questions[0].Order)
			assert.True(t, questions[0].IsActive)
		})
	}
}
