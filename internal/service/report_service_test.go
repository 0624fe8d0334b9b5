package service

import (
	"bytes"
	"context"
	"fmt"
	"physics_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readSheet(t *testing.T, r *Report) [][]string {
	t.Helper()
	book, err := excelize.OpenReader(bytes.NewReader(r.Data))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(reportSheet)
	require.NoError(t, err)
	return rows
}

func TestReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := f.topic(t, "Momentum")
	quiz := newQuiz(t, f, topic.ID, 0, 0)

	ada := f.student(t, "ada@example.com")
	bob := f.student(t, "bob@example.com")
	for _, s := range []struct {
		userID  uint
		correct bool
	}{{ada.ID, true}, {bob.ID, false}} {
		attempt, err := f.quiz.StartAttempt(ctx, s.userID, quiz.ID)
		require.NoError(t, err)
		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			_, err := f.quiz.SubmitResponse(s.userID, attempt.ID, &ResponseInput{QuestionID: q.ID, SelectedAnswerIDs: pick(q, s.correct)})
			require.NoError(t, err)
		}
		_, err = f.quiz.CompleteAttempt(ctx, s.userID, attempt.ID)
		require.NoError(t, err)
	}
	// 未完成的作答不导出
	_, err := f.quiz.StartAttempt(ctx, bob.ID, quiz.ID)
	require.NoError(t, err)

	t.Run("quiz attempts", func(t *testing.T) {
		report, err := f.report.QuizAttempts(quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("quiz_%d_attempts.xlsx", quiz.ID), report.Filename)

		rows := readSheet(t, report)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Student", "Email", "Attempt", "Started At", "Completed At", "Time Taken (s)", "Score", "Passed"}, rows[0])
		assert.Equal(t, ada.Email, rows[1][1])
		assert.Equal(t, "1", rows[1][2])
		assert.Equal(t, "100", rows[1][6])
		assert.Equal(t, bob.Email, rows[2][1])
		assert.Equal(t, "0", rows[2][6])

		_, err = f.report.QuizAttempts(9999)
		assert.ErrorIs(t, err, util.ErrQuizNotFound)
	})

	t.Run("learner analytics", func(t *testing.T) {
		report, err := f.report.LearnerAnalytics()
		require.NoError(t, err)
		assert.Equal(t, "learner_analytics.xlsx", report.Filename)

		rows := readSheet(t, report)
		require.Len(t, rows, 3)
		assert.Len(t, rows[0], 12)
		assert.Equal(t, "Student", rows[0][0])
		assert.Equal(t, ada.Name, rows[1][0])
		assert.Equal(t, "1", rows[1][4], "quizzes taken")
		assert.Equal(t, "1", rows[1][5], "quizzes passed")
		assert.Equal(t, bob.Name, rows[2][0])
		assert.Equal(t, "0", rows[2][5])
	})
}
