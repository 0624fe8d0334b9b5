package repository

import (
	"physics_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: tx}
}

func (r *ProfileRepository) CreateStudentProfile(p *model.StudentProfile) error {
	return r.DB.Create(p).Error
}

func (r *ProfileRepository) CreateTeacherProfile(p *model.TeacherProfile) error {
	return r.DB.Create(p).Error
}

// FindStudentProfile 不存在时返回 nil
func (r *ProfileRepository) FindStudentProfile(userID uint) (*model.StudentProfile, error) {
	var p model.StudentProfile
	err := r.DB.Where("user_id = ?", userID).Limit(1).Find(&p).Error
	if err != nil || p.ID == 0 {
		return nil, err
	}
	return &p, nil
}

// FindTeacherProfile 不存在时返回 nil
func (r *ProfileRepository) FindTeacherProfile(userID uint) (*model.TeacherProfile, error) {
	var p model.TeacherProfile
	err := r.DB.Where("user_id = ?", userID).Limit(1).Find(&p).Error
	if err != nil || p.ID == 0 {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) SaveStudentProfile(p *model.StudentProfile) error {
	return r.DB.Save(p).Error
}

func (r *ProfileRepository) SaveTeacherProfile(p *model.TeacherProfile) error {
	return r.DB.Save(p).Error
}

// FindOrCreateLearningProfile 学习档案按需创建
func (r *ProfileRepository) FindOrCreateLearningProfile(userID uint) (*model.LearningProfile, error) {
	var p model.LearningProfile
	if err := r.DB.Preload("CurrentGrade").Where("user_id = ?", userID).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID != 0 {
		return &p, nil
	}

	p = model.LearningProfile{
		UserID:                 userID,
		PreferredLearningStyle: model.StyleVisual,
		PhysicsBackground:      model.BackgroundBeginner,
		TimeAvailable:          30,
	}
	if err := r.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) SaveLearningProfile(p *model.LearningProfile) error {
	return r.DB.Omit("CurrentGrade").Save(p).Error
}
