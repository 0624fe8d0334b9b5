package repository

import (
	"physics_edu_backend/internal/model"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: tx}
}

func activeQuestions(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order ASC, id ASC")
}

func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// List 已启用测验，topicID 为空返回全部
func (r *QuizRepository) List(topicID *uint) ([]model.Quiz, error) {
	query := r.DB.Preload("Topic").Where("is_active = ?", true)
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	}
	var quizzes []model.Quiz
	err := query.Order("topic_id ASC, id ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListAll(topicID *uint) ([]model.Quiz, error) {
	query := r.DB.Preload("Topic")
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	}
	var quizzes []model.Quiz
	err := query.Order("topic_id ASC, id ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Topic").First(&quiz, id).Error
	return &quiz, err
}

// FindWithQuestions 测验及其启用题目和选项
func (r *QuizRepository) FindWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Topic").
		Preload("Questions", activeQuestions).
		Preload("Questions.Answers", orderedAnswers).
		First(&quiz, id).Error
	return &quiz, err
}

// FindWithAllQuestions 后台编辑使用，包含停用题目
func (r *QuizRepository) FindWithAllQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Topic").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Questions.Answers", orderedAnswers).
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindQuestion(quizID, questionID uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Answers", orderedAnswers).
		Where("quiz_id = ? AND is_active = ?", quizID, true).
		First(&question, questionID).Error
	return &question, err
}

// TotalActivePoints 启用题目总分
func (r *QuizRepository) TotalActivePoints(quizID uint) (int, error) {
	var total int
	err := r.DB.Model(&model.Question{}).
		Where("quiz_id = ? AND is_active = ?", quizID, true).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

func (r *QuizRepository) ListByTopic(topicID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("topic_id = ? AND is_active = ?", topicID, true).Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Search(keyword string, limit int) ([]model.Quiz, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var quizzes []model.Quiz
	err := r.DB.Preload("Topic").
		Joins("JOIN topics ON topics.id = quizzes.topic_id").
		Where("quizzes.is_active = ?", true).
		Where("LOWER(quizzes.title) LIKE ? OR LOWER(quizzes.description) LIKE ? OR LOWER(topics.title) LIKE ?", like, like, like).
		Order("quizzes.id ASC").
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, err
}

// Create 连同题目和选项一起写入
func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Omit("Topic").Create(quiz).Error
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Omit(clause.Associations).Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Quiz{}, id)
	return res.RowsAffected, res.Error
}

// ReplaceQuestions 删除旧题目与选项后写入新题目
func (r *QuizRepository) ReplaceQuestions(quizID uint, questions []model.Question) error {
	var oldIDs []uint
	if err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &oldIDs).Error; err != nil {
		return err
	}
	if len(oldIDs) > 0 {
		if err := r.DB.Where("question_id IN ?", oldIDs).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := r.DB.Where("id IN ?", oldIDs).Delete(&model.Question{}).Error; err != nil {
			return err
		}
	}
	for i := range questions {
		questions[i].QuizID = quizID
		if err := r.DB.Create(&questions[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func (r *AttemptRepository) CountByUserQuiz(userID, quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// MaxAttemptNumber 当前最大尝试序号，无记录为 0
func (r *AttemptRepository) MaxAttemptNumber(userID, quizID uint) (int, error) {
	var max int
	err := r.DB.Unscoped().Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&max).Error
	return max, err
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Omit(clause.Associations).Create(attempt).Error
}

func (r *AttemptRepository) Save(attempt *model.QuizAttempt) error {
	return r.DB.Omit(clause.Associations).Save(attempt).Error
}

// FindForUser 只返回属于该用户的尝试
func (r *AttemptRepository) FindForUser(userID, attemptID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Where("user_id = ?", userID).
		First(&attempt, attemptID).Error
	return &attempt, err
}

func (r *AttemptRepository) ListByUserQuiz(userID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListCompletedByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND completed_at IS NOT NULL", quizID).
		Order("completed_at ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) RecentCompletedByUser(userID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// UpsertResponse 同一题重复作答时覆盖旧答案
func (r *AttemptRepository) UpsertResponse(resp *model.QuizResponse) error {
	var existing model.QuizResponse
	err := r.DB.Where("attempt_id = ? AND question_id = ?", resp.AttemptID, resp.QuestionID).
		Limit(1).Find(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		resp.ID = existing.ID
		resp.CreatedAt = existing.CreatedAt
		return r.DB.Save(resp).Error
	}
	return r.DB.Create(resp).Error
}

func (r *AttemptRepository) ListResponses(attemptID uint) ([]model.QuizResponse, error) {
	var responses []model.QuizResponse
	err := r.DB.Where("attempt_id = ?", attemptID).Order("id ASC").Find(&responses).Error
	return responses, err
}

// SumPointsEarned 汇总尝试内已获得分数
func (r *AttemptRepository) SumPointsEarned(attemptID uint) (float64, error) {
	var sum float64
	err := r.DB.Model(&model.QuizResponse{}).
		Where("attempt_id = ?", attemptID).
		Select("COALESCE(SUM(points_earned), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *AttemptRepository) FindFeedback(attemptID uint) (*model.QuizFeedback, error) {
	var fb model.QuizFeedback
	err := r.DB.Where("attempt_id = ?", attemptID).Limit(1).Find(&fb).Error
	if err != nil || fb.ID == 0 {
		return nil, err
	}
	return &fb, nil
}

// UpsertFeedback 每次尝试只保留一条反馈
func (r *AttemptRepository) UpsertFeedback(fb *model.QuizFeedback) error {
	existing, err := r.FindFeedback(fb.AttemptID)
	if err != nil {
		return err
	}
	if existing != nil {
		fb.ID = existing.ID
		fb.CreatedAt = existing.CreatedAt
		return r.DB.Save(fb).Error
	}
	return r.DB.Create(fb).Error
}
