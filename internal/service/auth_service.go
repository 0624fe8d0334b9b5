package service

import (
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB             *gorm.DB
	UserRepo       *repository.UserRepository
	ProfileRepo    *repository.ProfileRepository
	PreferenceRepo *repository.PreferenceRepository
	Cfg            *config.Config
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	preferenceRepo *repository.PreferenceRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		DB:             db,
		UserRepo:       userRepo,
		ProfileRepo:    profileRepo,
		PreferenceRepo: preferenceRepo,
		Cfg:            cfg,
	}
}

type RegisterInput struct {
	Name       string         `json:"name" binding:"required,max=100"`
	Email      string         `json:"email" binding:"required,email"`
	Password   string         `json:"password" binding:"required,min=6"`
	Role       model.UserRole `json:"role"`
	School     string         `json:"school"`
	GradeLevel string         `json:"gradeLevel"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult 注册/登录返回的令牌与用户
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 创建用户及其角色档案和通知偏好
func (s *AuthService) Register(in *RegisterInput) (*AuthResult, error) {
	role := in.Role
	if role == "" {
		role = model.Student
	}
	// 管理员账号不能自助注册
	if !model.ValidRole(role) || role == model.Admin {
		return nil, invalidf("unsupported role %q", role)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Password:   string(hashedPassword),
		Role:       role,
		School:     in.School,
		GradeLevel: in.GradeLevel,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		profiles := s.ProfileRepo.WithTx(tx)
		switch role {
		case model.Student:
			if err := profiles.CreateStudentProfile(&model.StudentProfile{
				UserID:                user.ID,
				PreferredLearningTime: model.LearningTimeFlexible,
				PhysicsInterestLevel:  model.InterestMedium,
			}); err != nil {
				return err
			}
		case model.Teacher:
			if err := profiles.CreateTeacherProfile(&model.TeacherProfile{
				UserID:     user.ID,
				SchoolName: in.School,
			}); err != nil {
				return err
			}
		}
		_, err := s.PreferenceRepo.WithTx(tx).FindOrCreate(user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("user registered", zap.Uint("userID", user.ID), zap.String("role", string(role)))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(in *LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, notFound(err, util.ErrInvalidLogin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidLogin
	}
	if user.Disabled {
		return nil, util.ErrUserDisabled
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("update last login failed", zap.Uint("userID", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
