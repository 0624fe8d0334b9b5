package service

import (
	"encoding/json"
	"physics_edu_backend/internal/model"
)

// 成就条件键
const (
	CriterionTopicsCompleted      = "topics_completed"
	CriterionQuizzesTaken         = "quizzes_taken"
	CriterionQuizzesPassed        = "quizzes_passed"
	CriterionQuizScore            = "quiz_score"
	CriterionSimulationsCompleted = "simulations_completed"
	CriterionStreakDays           = "streak_days"
	CriterionLongestStreak        = "longest_streak"
	CriterionStudyMinutes         = "study_minutes"
)

// CriteriaStats 从学习统计提取可比较的指标
func CriteriaStats(a *model.LearningAnalytics) map[string]float64 {
	return map[string]float64{
		CriterionTopicsCompleted:      float64(a.TopicsCompleted),
		CriterionQuizzesTaken:         float64(a.QuizzesTaken),
		CriterionQuizzesPassed:        float64(a.QuizzesPassed),
		CriterionQuizScore:            a.BestQuizScore,
		CriterionSimulationsCompleted: float64(a.SimulationsExplored),
		CriterionStreakDays:           float64(a.CurrentStreak),
		CriterionLongestStreak:        float64(a.LongestStreak),
		CriterionStudyMinutes:         float64(a.TotalStudyTime),
	}
}

// ParseCriteria 解析阈值映射
func ParseCriteria(raw []byte) (map[string]float64, error) {
	criteria := map[string]float64{}
	if len(raw) == 0 {
		return criteria, nil
	}
	if err := json.Unmarshal(raw, &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

// CriteriaMet 所有阈值均满足；空条件或未知键不满足
func CriteriaMet(criteria map[string]float64, stats map[string]float64) bool {
	if len(criteria) == 0 {
		return false
	}
	for key, threshold := range criteria {
		value, ok := stats[key]
		if !ok || value < threshold {
			return false
		}
	}
	return true
}

// ValidCriteria 校验条件中的键均为已知指标
func ValidCriteria(criteria map[string]float64) bool {
	known := CriteriaStats(&model.LearningAnalytics{})
	for key := range criteria {
		if _, ok := known[key]; !ok {
			return false
		}
	}
	return len(criteria) > 0
}
