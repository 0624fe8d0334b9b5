package repository

import (
	"physics_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// Find 不存在时返回 nil
func (r *ProgressRepository) Find(userID, topicID uint) (*model.TopicProgress, error) {
	var p model.TopicProgress
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).Limit(1).Find(&p).Error
	if err != nil || p.ID == 0 {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Create(p *model.TopicProgress) error {
	return r.DB.Omit(clause.Associations).Create(p).Error
}

func (r *ProgressRepository) Save(p *model.TopicProgress) error {
	return r.DB.Omit(clause.Associations).Save(p).Error
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.TopicProgress, error) {
	var list []model.TopicProgress
	err := r.DB.Preload("Topic").Preload("Topic.Grade").
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&list).Error
	return list, err
}

func (r *ProgressRepository) CountByStatus(userID uint, statuses ...string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TopicProgress{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Count(&count).Error
	return count, err
}

// TopicTime 主题学习时长
type TopicTime struct {
	TopicID   uint   `json:"topicId"`
	Title     string `json:"title"`
	TimeSpent int    `json:"timeSpent"`
}

func (r *ProgressRepository) TopTopicsByTime(userID uint, limit int) ([]TopicTime, error) {
	var rows []TopicTime
	err := r.DB.Table("topic_progress").
		Select("topic_progress.topic_id AS topic_id, topics.title AS title, topic_progress.time_spent AS time_spent").
		Joins("JOIN topics ON topics.id = topic_progress.topic_id").
		Where("topic_progress.user_id = ? AND topic_progress.deleted_at IS NULL AND topic_progress.time_spent > 0", userID).
		Order("topic_progress.time_spent DESC, topic_progress.topic_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// GradeProgress 按年级统计
type GradeProgress struct {
	GradeID   uint   `json:"gradeId"`
	GradeName string `json:"gradeName"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

func (r *ProgressRepository) ProgressByGrade(userID uint) ([]GradeProgress, error) {
	var rows []GradeProgress
	err := r.DB.Table("topics").
		Select(`grades.id AS grade_id, grades.name AS grade_name, COUNT(topics.id) AS total,
			SUM(CASE WHEN topic_progress.status IN ('completed','mastered') THEN 1 ELSE 0 END) AS completed`).
		Joins("JOIN grades ON grades.id = topics.grade_id").
		Joins("LEFT JOIN topic_progress ON topic_progress.topic_id = topics.id AND topic_progress.user_id = ? AND topic_progress.deleted_at IS NULL", userID).
		Where("topics.is_active = ? AND topics.deleted_at IS NULL", true).
		Group("grades.id, grades.name, grades.sort_order").
		Order("grades.sort_order ASC, grades.id ASC").
		Scan(&rows).Error
	return rows, err
}

type StudySessionRepository struct {
	DB *gorm.DB
}

func NewStudySessionRepository(db *gorm.DB) *StudySessionRepository {
	return &StudySessionRepository{DB: db}
}

func (r *StudySessionRepository) WithTx(tx *gorm.DB) *StudySessionRepository {
	return &StudySessionRepository{DB: tx}
}

func (r *StudySessionRepository) Create(s *model.StudySession) error {
	return r.DB.Omit(clause.Associations).Create(s).Error
}

func (r *StudySessionRepository) Save(s *model.StudySession) error {
	return r.DB.Omit(clause.Associations).Save(s).Error
}

func (r *StudySessionRepository) FindForUser(userID, id uint) (*model.StudySession, error) {
	var s model.StudySession
	err := r.DB.Where("user_id = ?", userID).First(&s, id).Error
	return &s, err
}

func (r *StudySessionRepository) ListByUser(userID uint, page, limit int) ([]model.StudySession, int64, error) {
	query := r.DB.Model(&model.StudySession{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.StudySession
	err := query.Preload("Topic").
		Order("started_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *StudySessionRepository) TotalMinutes(userID uint) (int, error) {
	var total int
	err := r.DB.Model(&model.StudySession{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&total).Error
	return total, err
}

// TypeTime 按会话类型汇总学习时长
type TypeTime struct {
	SessionType string `json:"sessionType"`
	Minutes     int    `json:"minutes"`
	Sessions    int64  `json:"sessions"`
}

func (r *StudySessionRepository) MinutesByType(userID uint) ([]TypeTime, error) {
	var rows []TypeTime
	err := r.DB.Model(&model.StudySession{}).
		Select("session_type, COALESCE(SUM(duration), 0) AS minutes, COUNT(id) AS sessions").
		Where("user_id = ?", userID).
		Group("session_type").
		Order("session_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *StudySessionRepository) MinutesSince(userID uint, since time.Time) (int, error) {
	var total int
	err := r.DB.Model(&model.StudySession{}).
		Where("user_id = ? AND started_at >= ?", userID, since).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&total).Error
	return total, err
}

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) ListByUser(userID uint) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	err := r.DB.Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&paths).Error
	return paths, err
}

func (r *LearningPathRepository) FindForUser(userID, id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.Preload("Topics").Where("user_id = ?", userID).First(&path, id).Error
	return &path, err
}

func (r *LearningPathRepository) Create(path *model.LearningPath) error {
	return r.DB.Omit("Topics.*").Create(path).Error
}

func (r *LearningPathRepository) Update(path *model.LearningPath, topics []model.Topic) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Topics").Save(path).Error; err != nil {
			return err
		}
		switch {
		case topics == nil:
			return nil
		case len(topics) == 0:
			return tx.Model(path).Association("Topics").Clear()
		default:
			return tx.Model(path).Association("Topics").Replace(topics)
		}
	})
}

func (r *LearningPathRepository) Delete(path *model.LearningPath) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(path).Association("Topics").Clear(); err != nil {
			return err
		}
		return tx.Delete(path).Error
	})
}
