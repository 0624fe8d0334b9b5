package repository

import (
	"physics_edu_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) List() ([]model.Grade, error) {
	var grades []model.Grade
	err := r.DB.Order("sort_order ASC, id ASC").Find(&grades).Error
	return grades, err
}

func (r *GradeRepository) FindByID(id uint) (*model.Grade, error) {
	var grade model.Grade
	err := r.DB.First(&grade, id).Error
	return &grade, err
}

// FindByName 不存在时返回 nil
func (r *GradeRepository) FindByName(name string) (*model.Grade, error) {
	var grade model.Grade
	err := r.DB.Where("name = ?", name).Limit(1).Find(&grade).Error
	if err != nil || grade.ID == 0 {
		return nil, err
	}
	return &grade, nil
}

func (r *GradeRepository) Create(grade *model.Grade) error {
	return r.DB.Create(grade).Error
}

func (r *GradeRepository) Update(grade *model.Grade) error {
	return r.DB.Omit("Topics").Save(grade).Error
}

func (r *GradeRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Grade{}, id)
	return res.RowsAffected, res.Error
}

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) WithTx(tx *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: tx}
}

// List 已启用的主题，gradeID 为空时返回全部年级
func (r *TopicRepository) List(gradeID *uint) ([]model.Topic, error) {
	query := r.DB.Preload("Grade").Where("is_active = ?", true)
	if gradeID != nil {
		query = query.Where("grade_id = ?", *gradeID)
	}
	var topics []model.Topic
	err := query.Order("grade_id ASC, sort_order ASC, id ASC").Find(&topics).Error
	return topics, err
}

// ListAll 含未启用主题，后台使用
func (r *TopicRepository) ListAll(gradeID *uint) ([]model.Topic, error) {
	query := r.DB.Preload("Grade")
	if gradeID != nil {
		query = query.Where("grade_id = ?", *gradeID)
	}
	var topics []model.Topic
	err := query.Order("grade_id ASC, sort_order ASC, id ASC").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) Featured(limit int) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Preload("Grade").
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Preload("Grade").First(&topic, id).Error
	return &topic, err
}

// FindDetailBySlug 主题详情，附带全部子资源
func (r *TopicRepository) FindDetailBySlug(slug string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.
		Preload("Grade").
		Preload("Prerequisites", "is_active = ?", true).
		Preload("Contents", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Formulas", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Experiments", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&topic).Error
	return &topic, err
}

func (r *TopicRepository) Search(keyword string, limit int) ([]model.Topic, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var topics []model.Topic
	err := r.DB.Preload("Grade").
		Where("is_active = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(learning_outcomes) LIKE ?", like, like, like).
		Order("sort_order ASC, id ASC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	// Unscoped 避免与软删除记录的唯一索引冲突
	err := r.DB.Unscoped().Model(&model.Topic{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *TopicRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Topic{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *TopicRepository) FindByIDs(ids []uint) ([]model.Topic, error) {
	var topics []model.Topic
	if len(ids) == 0 {
		return topics, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Omit("Grade", "Prerequisites.*").Create(topic).Error
}

func (r *TopicRepository) Update(topic *model.Topic) error {
	return r.DB.Omit("Grade", "Prerequisites", "Contents", "Media", "Formulas", "Experiments").Save(topic).Error
}

func (r *TopicRepository) ReplacePrerequisites(topic *model.Topic, prerequisites []model.Topic) error {
	return r.DB.Model(topic).Association("Prerequisites").Replace(prerequisites)
}

func (r *TopicRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Topic{}, id)
	return res.RowsAffected, res.Error
}

// RecommendedFor 未完成的已启用主题
func (r *TopicRepository) RecommendedFor(userID uint, limit int) ([]model.Topic, error) {
	finished := r.DB.Model(&model.TopicProgress{}).
		Select("topic_id").
		Where("user_id = ? AND status IN ?", userID, []string{model.StatusCompleted, model.StatusMastered})

	var topics []model.Topic
	err := r.DB.Preload("Grade").
		Where("is_active = ?", true).
		Where("id NOT IN (?)", finished).
		Order("grade_id ASC, sort_order ASC, id ASC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

// TopicResourceRepository 主题下的内容、媒体、公式、实验
type TopicResourceRepository struct {
	DB *gorm.DB
}

func NewTopicResourceRepository(db *gorm.DB) *TopicResourceRepository {
	return &TopicResourceRepository{DB: db}
}

func (r *TopicResourceRepository) Create(value interface{}) error {
	return r.DB.Create(value).Error
}

func (r *TopicResourceRepository) Save(value interface{}) error {
	return r.DB.Save(value).Error
}

// FindInTopic 按主题和 ID 查找子资源，dest 为模型指针
func (r *TopicResourceRepository) FindInTopic(dest interface{}, topicID, id uint) error {
	return r.DB.Where("topic_id = ?", topicID).First(dest, id).Error
}

// DeleteInTopic 删除主题下的子资源，value 为模型指针
func (r *TopicResourceRepository) DeleteInTopic(value interface{}, topicID, id uint) (int64, error) {
	res := r.DB.Where("topic_id = ?", topicID).Delete(value, id)
	return res.RowsAffected, res.Error
}
