package service

import (
	"context"
	"math/rand/v2"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
	"physics_edu_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	DB          *gorm.DB
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	Analytics   *AnalyticsService
	Now         func() time.Time
	Shuffle     func(n int, swap func(i, j int))
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, analytics *AnalyticsService) *QuizService {
	return &QuizService{
		DB:          db,
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		Analytics:   analytics,
		Now:         time.Now,
		Shuffle:     rand.Shuffle,
	}
}

// AnswerView 作答页选项，不暴露正确性
type AnswerView struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answerText"`
	Order      int    `json:"order"`
}

// QuestionView 作答页题目
type QuestionView struct {
	ID           uint         `json:"id"`
	QuestionType string       `json:"questionType"`
	QuestionText string       `json:"questionText"`
	Points       int          `json:"points"`
	Order        int          `json:"order"`
	Answers      []AnswerView `json:"answers"`
}

func questionView(q *model.Question) QuestionView {
	v := QuestionView{
		ID:           q.ID,
		QuestionType: q.QuestionType,
		QuestionText: q.QuestionText,
		Points:       q.Points,
		Order:        q.Order,
		Answers:      make([]AnswerView, 0, len(q.Answers)),
	}
	for _, a := range q.Answers {
		v.Answers = append(v.Answers, AnswerView{ID: a.ID, AnswerText: a.AnswerText, Order: a.Order})
	}
	return v
}

// QuizDetail 测验详情及当前用户的尝试记录
type QuizDetail struct {
	Quiz              *model.Quiz         `json:"quiz"`
	QuestionCount     int                 `json:"questionCount"`
	TotalPoints       int                 `json:"totalPoints"`
	Attempts          []model.QuizAttempt `json:"attempts"`
	AttemptsRemaining int                 `json:"attemptsRemaining"` // -1 表示不限
	CanAttempt        bool                `json:"canAttempt"`
	BestScore         *float64            `json:"bestScore,omitempty"`
}

func (s *QuizService) List(topicID *uint) ([]model.Quiz, error) {
	return s.QuizRepo.List(topicID)
}

func (s *QuizService) Search(keyword string) ([]model.Quiz, error) {
	if keyword == "" {
		return []model.Quiz{}, nil
	}
	return s.QuizRepo.Search(keyword, util.SearchResultLimit)
}

func (s *QuizService) Detail(quizID, userID uint) (*QuizDetail, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(quizID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizNotFound
	}

	detail := &QuizDetail{
		Quiz:              quiz,
		QuestionCount:     len(quiz.Questions),
		AttemptsRemaining: -1,
		CanAttempt:        true,
		Attempts:          []model.QuizAttempt{},
	}
	for _, q := range quiz.Questions {
		detail.TotalPoints += q.Points
	}
	// 详情页不下发题目内容
	quiz.Questions = nil

	if userID == 0 {
		return detail, nil
	}

	attempts, err := s.AttemptRepo.ListByUserQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	detail.Attempts = attempts
	for i := range attempts {
		if sc := attempts[i].Score; sc != nil && (detail.BestScore == nil || *sc > *detail.BestScore) {
			v := *sc
			detail.BestScore = &v
		}
	}
	if quiz.MaxAttempts > 0 {
		remaining := quiz.MaxAttempts - len(attempts)
		if remaining < 0 {
			remaining = 0
		}
		detail.AttemptsRemaining = remaining
		detail.CanAttempt = remaining > 0
	}
	return detail, nil
}

// StartAttempt 开始新的测验尝试，超过次数上限返回 ErrAttemptLimitReached
func (s *QuizService) StartAttempt(ctx context.Context, userID, quizID uint) (*model.QuizAttempt, error) {
	_, span := tracing.StartSpan(ctx, "QuizService.StartAttempt", attribute.Int("quiz.id", int(quizID)))
	defer span.End()

	var attempt *model.QuizAttempt
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		quiz, err := s.QuizRepo.WithTx(tx).FindByID(quizID)
		if err != nil {
			return notFound(err, util.ErrQuizNotFound)
		}
		if !quiz.IsActive {
			return util.ErrQuizInactive
		}

		attempts := s.AttemptRepo.WithTx(tx)
		count, err := attempts.CountByUserQuiz(userID, quizID)
		if err != nil {
			return err
		}
		if quiz.MaxAttempts > 0 && int(count) >= quiz.MaxAttempts {
			return util.ErrAttemptLimitReached
		}

		last, err := attempts.MaxAttemptNumber(userID, quizID)
		if err != nil {
			return err
		}

		attempt = &model.QuizAttempt{
			UserID:        userID,
			QuizID:        quizID,
			AttemptNumber: last + 1,
			StartedAt:     s.Now(),
		}
		return attempts.Create(attempt)
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// TakeView 作答页
type TakeView struct {
	Attempt          *model.QuizAttempt `json:"attempt"`
	Quiz             *model.Quiz        `json:"quiz"`
	Questions        []QuestionView     `json:"questions"`
	AnsweredIDs      []uint             `json:"answeredQuestionIds"`
	RemainingSeconds *int               `json:"remainingSeconds,omitempty"`
}

func (s *QuizService) findOpenAttempt(repo *repository.AttemptRepository, userID, attemptID uint) (*model.QuizAttempt, error) {
	attempt, err := repo.FindForUser(userID, attemptID)
	if err != nil {
		return nil, notFound(err, util.ErrAttemptNotFound)
	}
	if attempt.IsCompleted() {
		return nil, util.ErrAttemptCompleted
	}
	return attempt, nil
}

// deadline 测验截止时间，不限时返回零值
func deadline(quiz *model.Quiz, attempt *model.QuizAttempt) time.Time {
	if quiz == nil || quiz.TimeLimit <= 0 {
		return time.Time{}
	}
	return attempt.StartedAt.Add(time.Duration(quiz.TimeLimit) * time.Minute)
}

func (s *QuizService) Take(userID, attemptID uint) (*TakeView, error) {
	attempt, err := s.findOpenAttempt(s.AttemptRepo, userID, attemptID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.QuizRepo.FindWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}

	questions := make([]QuestionView, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		v := questionView(&quiz.Questions[i])
		if quiz.Questions[i].QuestionType == model.QuestionOrdering {
			s.Shuffle(len(v.Answers), func(a, b int) { v.Answers[a], v.Answers[b] = v.Answers[b], v.Answers[a] })
		}
		questions = append(questions, v)
	}
	if quiz.IsRandomized {
		s.Shuffle(len(questions), func(a, b int) { questions[a], questions[b] = questions[b], questions[a] })
	}
	quiz.Questions = nil

	responses, err := s.AttemptRepo.ListResponses(attempt.ID)
	if err != nil {
		return nil, err
	}
	answered := make([]uint, 0, len(responses))
	for _, r := range responses {
		answered = append(answered, r.QuestionID)
	}

	view := &TakeView{Attempt: attempt, Quiz: quiz, Questions: questions, AnsweredIDs: answered}
	if d := deadline(quiz, attempt); !d.IsZero() {
		remaining := int(d.Sub(s.Now()).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		view.RemainingSeconds = &remaining
	}
	return view, nil
}

// ResponseInput 单题作答
type ResponseInput struct {
	QuestionID        uint   `json:"questionId" binding:"required"`
	SelectedAnswerIDs []uint `json:"selectedAnswerIds"`
	TextResponse      string `json:"textResponse"`
	TimeTaken         int    `json:"timeTaken" binding:"min=0"`
}

// ResponseResult 作答反馈，是否正确仅在允许显示答案时返回
type ResponseResult struct {
	QuestionID uint  `json:"questionId"`
	Saved      bool  `json:"saved"`
	IsCorrect  *bool `json:"isCorrect,omitempty"`
}

func (s *QuizService) SubmitResponse(userID, attemptID uint, in *ResponseInput) (*ResponseResult, error) {
	attempt, err := s.findOpenAttempt(s.AttemptRepo, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if d := deadline(attempt.Quiz, attempt); !d.IsZero() && s.Now().After(d) {
		return nil, util.ErrTimeLimitExceeded
	}

	question, err := s.QuizRepo.FindQuestion(attempt.QuizID, in.QuestionID)
	if err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}

	valid := make(map[uint]bool, len(question.Answers))
	for _, a := range question.Answers {
		valid[a.ID] = true
	}
	for _, id := range in.SelectedAnswerIDs {
		if !valid[id] {
			return nil, invalidf("answer %d does not belong to question %d", id, question.ID)
		}
	}

	correct, points := GradeResponse(question, in.SelectedAnswerIDs, in.TextResponse)
	resp := &model.QuizResponse{
		AttemptID:         attempt.ID,
		QuestionID:        question.ID,
		SelectedAnswerIDs: in.SelectedAnswerIDs,
		TextResponse:      in.TextResponse,
		IsCorrect:         correct,
		PointsEarned:      points,
		TimeTaken:         in.TimeTaken,
		AnsweredAt:        s.Now(),
	}
	if err := s.AttemptRepo.UpsertResponse(resp); err != nil {
		return nil, err
	}

	result := &ResponseResult{QuestionID: question.ID, Saved: true}
	if attempt.Quiz != nil && attempt.Quiz.ShowCorrectAnswers {
		result.IsCorrect = &correct
	}
	return result, nil
}

// CompletionResult 完成测验后的结果
type CompletionResult struct {
	Attempt         *model.QuizAttempt  `json:"attempt"`
	Score           float64             `json:"score"`
	IsPassed        bool                `json:"isPassed"`
	PointsEarned    float64             `json:"pointsEarned"`
	PointsPossible  int                 `json:"pointsPossible"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

// CompleteAttempt 计算得分并结束尝试，同一尝试只能完成一次
func (s *QuizService) CompleteAttempt(ctx context.Context, userID, attemptID uint) (*CompletionResult, error) {
	_, span := tracing.StartSpan(ctx, "QuizService.CompleteAttempt", attribute.Int("attempt.id", int(attemptID)))
	defer span.End()

	var result *CompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		attempts := s.AttemptRepo.WithTx(tx)
		attempt, err := s.findOpenAttempt(attempts, userID, attemptID)
		if err != nil {
			return err
		}
		if attempt.Quiz == nil {
			return util.ErrQuizNotFound
		}

		possible, err := s.QuizRepo.WithTx(tx).TotalActivePoints(attempt.QuizID)
		if err != nil {
			return err
		}
		earned, err := attempts.SumPointsEarned(attempt.ID)
		if err != nil {
			return err
		}

		now := s.Now()
		score := ScoreAttempt(earned, possible)
		passed := IsPassed(score, attempt.Quiz.PassingScore)

		attempt.Score = &score
		attempt.IsPassed = passed
		attempt.CompletedAt = &now
		attempt.TimeTaken = int(now.Sub(attempt.StartedAt).Seconds())
		if err := attempts.Save(attempt); err != nil {
			return err
		}

		awarded, err := s.Analytics.Record(tx, userID, ActivityEvent{QuizScore: &score, QuizPassed: passed})
		if err != nil {
			return err
		}

		result = &CompletionResult{
			Attempt:         attempt,
			Score:           score,
			IsPassed:        passed,
			PointsEarned:    earned,
			PointsPossible:  possible,
			NewAchievements: awarded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveQuizAttempt(result.Score, result.IsPassed)
	ObserveAwards(result.NewAchievements)
	logger.Log.Info("quiz attempt completed",
		zap.Uint("userID", userID),
		zap.Uint("attemptID", attemptID),
		zap.Float64("score", result.Score),
		zap.Bool("passed", result.IsPassed))
	return result, nil
}

// ReviewAnswer 结果页选项
type ReviewAnswer struct {
	ID          uint   `json:"id"`
	AnswerText  string `json:"answerText"`
	IsCorrect   *bool  `json:"isCorrect,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Selected    bool   `json:"selected"`
}

// ReviewQuestion 结果页题目
type ReviewQuestion struct {
	ID           uint           `json:"id"`
	QuestionType string         `json:"questionType"`
	QuestionText string         `json:"questionText"`
	Points       int            `json:"points"`
	Explanation  string         `json:"explanation,omitempty"`
	Answers      []ReviewAnswer `json:"answers"`
	Answered     bool           `json:"answered"`
	TextResponse string         `json:"textResponse,omitempty"`
	IsCorrect    bool           `json:"isCorrect"`
	PointsEarned float64        `json:"pointsEarned"`
}

// AttemptResult 测验结果
type AttemptResult struct {
	Attempt   *model.QuizAttempt  `json:"attempt"`
	Quiz      *model.Quiz         `json:"quiz"`
	Questions []ReviewQuestion    `json:"questions"`
	Feedback  *model.QuizFeedback `json:"feedback,omitempty"`
}

func (s *QuizService) Result(userID, attemptID uint) (*AttemptResult, error) {
	attempt, err := s.AttemptRepo.FindForUser(userID, attemptID)
	if err != nil {
		return nil, notFound(err, util.ErrAttemptNotFound)
	}
	if !attempt.IsCompleted() {
		return nil, util.ErrAttemptNotCompleted
	}
	quiz, err := s.QuizRepo.FindWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	responses, err := s.AttemptRepo.ListResponses(attempt.ID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uint]*model.QuizResponse, len(responses))
	for i := range responses {
		byQuestion[responses[i].QuestionID] = &responses[i]
	}

	questions := make([]ReviewQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		rq := ReviewQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			QuestionText: q.QuestionText,
			Points:       q.Points,
			Answers:      make([]ReviewAnswer, 0, len(q.Answers)),
		}
		if quiz.ShowExplanations {
			rq.Explanation = q.Explanation
		}
		selected := map[uint]bool{}
		if r, ok := byQuestion[q.ID]; ok {
			rq.Answered = true
			rq.TextResponse = r.TextResponse
			rq.IsCorrect = r.IsCorrect
			rq.PointsEarned = r.PointsEarned
			for _, id := range r.SelectedAnswerIDs {
				selected[id] = true
			}
		}
		for _, a := range q.Answers {
			ra := ReviewAnswer{ID: a.ID, AnswerText: a.AnswerText, Selected: selected[a.ID]}
			if quiz.ShowCorrectAnswers {
				isCorrect := a.IsCorrect
				ra.IsCorrect = &isCorrect
			}
			if quiz.ShowExplanations {
				ra.Explanation = a.Explanation
			}
			rq.Answers = append(rq.Answers, ra)
		}
		questions = append(questions, rq)
	}
	quiz.Questions = nil

	feedback, err := s.AttemptRepo.FindFeedback(attempt.ID)
	if err != nil {
		return nil, err
	}

	return &AttemptResult{Attempt: attempt, Quiz: quiz, Questions: questions, Feedback: feedback}, nil
}

// QuizFeedbackInput 测验反馈
type QuizFeedbackInput struct {
	DifficultyRating   int    `json:"difficultyRating" binding:"required"`
	HelpfulRating      int    `json:"helpfulRating" binding:"required"`
	ConceptsUnderstood string `json:"conceptsUnderstood"`
	ConceptsConfusing  string `json:"conceptsConfusing"`
	Suggestions        string `json:"suggestions"`
}

func (s *QuizService) SubmitFeedback(userID, attemptID uint, in *QuizFeedbackInput) (*model.QuizFeedback, error) {
	if err := validRating(in.DifficultyRating, in.HelpfulRating); err != nil {
		return nil, err
	}
	attempt, err := s.AttemptRepo.FindForUser(userID, attemptID)
	if err != nil {
		return nil, notFound(err, util.ErrAttemptNotFound)
	}
	if !attempt.IsCompleted() {
		return nil, util.ErrAttemptNotCompleted
	}

	fb := &model.QuizFeedback{
		AttemptID:          attempt.ID,
		DifficultyRating:   in.DifficultyRating,
		HelpfulRating:      in.HelpfulRating,
		ConceptsUnderstood: in.ConceptsUnderstood,
		ConceptsConfusing:  in.ConceptsConfusing,
		Suggestions:        in.Suggestions,
	}
	if err := s.AttemptRepo.UpsertFeedback(fb); err != nil {
		return nil, err
	}
	return fb, nil
}
