package repository

import (
	"physics_edu_backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	return &user, err
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) AddXP(userID uint, xp int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("xp", gorm.Expr("xp + ?", xp)).
		Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	now := time.Now()
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login": now, "last_seen": now}).
		Error
}

func (r *UserRepository) SetDisabled(userID uint, disabled bool) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("disabled", disabled).
		Error
}

// UserFilter 后台用户列表筛选条件
type UserFilter struct {
	Role     model.UserRole
	Keyword  string
	Disabled *bool
	Page     int
	Limit    int
}

func (r *UserRepository) List(filter UserFilter) ([]model.User, int64, error) {
	query := r.DB.Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Keyword != "" {
		like := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if filter.Disabled != nil {
		query = query.Where("disabled = ?", *filter.Disabled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.Order("id ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&users).Error
	return users, total, err
}

// FindActiveStudents 未禁用的学生账号
func (r *UserRepository) FindActiveStudents() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ? AND disabled = ?", model.Student, false).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}
