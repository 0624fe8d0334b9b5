package service

import (
	"fmt"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Sheet1"

// ReportService 教师端 xlsx 导出
type ReportService struct {
	QuizRepo      *repository.QuizRepository
	AttemptRepo   *repository.AttemptRepository
	AnalyticsRepo *repository.AnalyticsRepository
	UserRepo      *repository.UserRepository
}

func NewReportService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	analyticsRepo *repository.AnalyticsRepository,
	userRepo *repository.UserRepository,
) *ReportService {
	return &ReportService{
		QuizRepo:      quizRepo,
		AttemptRepo:   attemptRepo,
		AnalyticsRepo: analyticsRepo,
		UserRepo:      userRepo,
	}
}

// Report 导出文件
type Report struct {
	Filename string
	Data     []byte
}

func writeSheet(header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "A1", last, style); err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "A", lastCol, 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QuizAttempts 导出测验的全部已完成作答
func (s *ReportService) QuizAttempts(quizID uint) (*Report, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	attempts, err := s.AttemptRepo.ListCompletedByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.UserID)
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	header := []interface{}{"Student", "Email", "Attempt", "Started At", "Completed At", "Time Taken (s)", "Score", "Passed"}
	rows := make([][]interface{}, 0, len(attempts))
	for _, a := range attempts {
		u := byID[a.UserID]
		var score float64
		if a.Score != nil {
			score = *a.Score
		}
		completed := ""
		if a.CompletedAt != nil {
			completed = a.CompletedAt.Format(util.TimeFormat)
		}
		rows = append(rows, []interface{}{
			u.Name, u.Email, a.AttemptNumber,
			a.StartedAt.Format(util.TimeFormat), completed,
			a.TimeTaken, score, a.IsPassed,
		})
	}

	data, err := writeSheet(header, rows)
	if err != nil {
		return nil, err
	}
	return &Report{Filename: fmt.Sprintf("quiz_%d_attempts.xlsx", quiz.ID), Data: data}, nil
}

// LearnerAnalytics 导出全部学习者的统计
func (s *ReportService) LearnerAnalytics() (*Report, error) {
	list, err := s.AnalyticsRepo.ListWithUsers()
	if err != nil {
		return nil, err
	}

	header := []interface{}{
		"Student", "Email", "Study Minutes", "Topics Completed", "Quizzes Taken", "Quizzes Passed",
		"Average Score", "Best Score", "Simulations", "Current Streak", "Longest Streak", "Last Activity",
	}
	rows := make([][]interface{}, 0, len(list))
	for _, a := range list {
		last := ""
		if a.LastActivityDate != nil {
			last = a.LastActivityDate.Format(util.DateFormat)
		}
		rows = append(rows, []interface{}{
			a.UserName, a.UserEmail, a.TotalStudyTime, a.TopicsCompleted, a.QuizzesTaken, a.QuizzesPassed,
			a.AverageQuizScore, a.BestQuizScore, a.SimulationsExplored, a.CurrentStreak, a.LongestStreak, last,
		})
	}

	data, err := writeSheet(header, rows)
	if err != nil {
		return nil, err
	}
	return &Report{Filename: "learner_analytics.xlsx", Data: data}, nil
}
