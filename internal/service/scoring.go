package service

import (
	"math"
	"physics_edu_backend/internal/model"
	"sort"
	"strconv"
	"strings"
)

// ScoreAttempt 百分制得分，总分为 0 时得分为 0
func ScoreAttempt(earned float64, possible int) float64 {
	if possible <= 0 {
		return 0
	}
	score := 100 * earned / float64(possible)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// IsPassed 得分达到及格线
func IsPassed(score float64, passingScore int) bool {
	return score >= float64(passingScore)
}

// GradeResponse 判定单题作答，返回是否正确与得分
func GradeResponse(q *model.Question, selected []uint, text string) (bool, float64) {
	correct := false
	switch q.QuestionType {
	case model.QuestionMultipleChoice, model.QuestionMatching:
		correct = sameIDSet(selected, correctAnswerIDs(q))
	case model.QuestionTrueFalse:
		correct = len(selected) == 1 && isCorrectAnswer(q, selected[0])
	case model.QuestionOrdering:
		correct = sameIDSequence(selected, orderedAnswerIDs(q))
	case model.QuestionFillBlank, model.QuestionShortAnswer:
		correct = matchText(q, text, false)
	case model.QuestionCalculation:
		correct = matchText(q, text, true)
	}

	if !correct {
		return false, 0
	}
	return true, float64(q.Points)
}

func correctAnswerIDs(q *model.Question) []uint {
	ids := make([]uint, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func orderedAnswerIDs(q *model.Question) []uint {
	answers := make([]model.Answer, len(q.Answers))
	copy(answers, q.Answers)
	sort.SliceStable(answers, func(i, j int) bool {
		if answers[i].Order != answers[j].Order {
			return answers[i].Order < answers[j].Order
		}
		return answers[i].ID < answers[j].ID
	})
	ids := make([]uint, len(answers))
	for i, a := range answers {
		ids[i] = a.ID
	}
	return ids
}

func isCorrectAnswer(q *model.Question, id uint) bool {
	for _, a := range q.Answers {
		if a.ID == id {
			return a.IsCorrect
		}
	}
	return false
}

func sameIDSet(a, b []uint) bool {
	if len(b) == 0 {
		return false
	}
	set := make(map[uint]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	if len(set) != len(a) || len(set) != len(b) {
		return false
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

func sameIDSequence(a, b []uint) bool {
	if len(a) != len(b) || len(b) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// matchText 文本题判定；未设置标准答案时任意非空作答视为正确
func matchText(q *model.Question, text string, numeric bool) bool {
	given := normalizeText(text)
	if given == "" {
		return false
	}

	expected := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.IsCorrect {
			expected = append(expected, a.AnswerText)
		}
	}
	if len(expected) == 0 {
		return true
	}

	for _, want := range expected {
		if normalizeText(want) == given {
			return true
		}
		if numeric && numericEqual(want, given) {
			return true
		}
	}
	return false
}

const numericTolerance = 1e-6

func numericEqual(want, given string) bool {
	w, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
	if err != nil {
		return false
	}
	g, err := strconv.ParseFloat(strings.TrimSpace(given), 64)
	if err != nil {
		return false
	}
	if w == g {
		return true
	}
	return math.Abs(w-g) <= numericTolerance*math.Max(math.Abs(w), math.Abs(g))
}
