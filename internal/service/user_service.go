package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// UserService 处理用户资料及后台用户管理
type UserService struct {
	UserRepo         *repository.UserRepository
	ProfileRepo      *repository.ProfileRepository
	NotificationRepo *repository.NotificationRepository
	GradeRepo        *repository.GradeRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	notificationRepo *repository.NotificationRepository,
	gradeRepo *repository.GradeRepository,
) *UserService {
	return &UserService{
		UserRepo:         userRepo,
		ProfileRepo:      profileRepo,
		NotificationRepo: notificationRepo,
		GradeRepo:        gradeRepo,
	}
}

// ProfileView 个人主页
type ProfileView struct {
	User                *model.User           `json:"user"`
	StudentProfile      *model.StudentProfile `json:"studentProfile,omitempty"`
	TeacherProfile      *model.TeacherProfile `json:"teacherProfile,omitempty"`
	RecentNotifications []model.Notification  `json:"recentNotifications"`
	UnreadCount         int64                 `json:"unreadCount"`
}

func (s *UserService) Profile(userID uint) (*ProfileView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}

	view := &ProfileView{User: user}
	switch user.Role {
	case model.Student:
		if view.StudentProfile, err = s.ProfileRepo.FindStudentProfile(userID); err != nil {
			return nil, err
		}
	case model.Teacher:
		if view.TeacherProfile, err = s.ProfileRepo.FindTeacherProfile(userID); err != nil {
			return nil, err
		}
	}

	if view.RecentNotifications, err = s.NotificationRepo.Recent(userID, util.RecentNotificationSize); err != nil {
		return nil, err
	}
	if view.UnreadCount, err = s.NotificationRepo.UnreadCount(userID); err != nil {
		return nil, err
	}
	return view, nil
}

// ProfileInput 可修改的个人资料，nil 字段保持不变
type ProfileInput struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth    *string `json:"dateOfBirth"` // 2006-01-02
	School         *string `json:"school"`
	GradeLevel     *string `json:"gradeLevel"`
	ProfilePicture *string `json:"profilePicture"`
	Bio            *string `json:"bio"`

	// 学生档案
	ParentEmail           *string `json:"parentEmail"`
	LearningGoals         *string `json:"learningGoals"`
	PreferredLearningTime *string `json:"preferredLearningTime"`
	PhysicsInterestLevel  *string `json:"physicsInterestLevel"`

	// 教师档案
	Specialization  *string `json:"specialization"`
	YearsExperience *int    `json:"yearsExperience"`
	Qualifications  *string `json:"qualifications"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func validLearningTime(t string) bool {
	switch t {
	case model.LearningTimeMorning, model.LearningTimeAfternoon, model.LearningTimeEvening, model.LearningTimeFlexible:
		return true
	}
	return false
}

func validInterest(l string) bool {
	switch l {
	case model.InterestLow, model.InterestMedium, model.InterestHigh, model.InterestVeryHigh:
		return true
	}
	return false
}

func (s *UserService) UpdateProfile(userID uint, in *ProfileInput) (*ProfileView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}

	setString(&user.Name, in.Name)
	if user.Name == "" {
		return nil, invalidf("name must not be empty")
	}
	setString(&user.Phone, in.Phone)
	setString(&user.School, in.School)
	setString(&user.GradeLevel, in.GradeLevel)
	setString(&user.ProfilePicture, in.ProfilePicture)
	setString(&user.Bio, in.Bio)
	if in.DateOfBirth != nil {
		if *in.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			dob, err := time.Parse(util.DateFormat, *in.DateOfBirth)
			if err != nil {
				return nil, invalidf("invalid date of birth %q", *in.DateOfBirth)
			}
			user.DateOfBirth = &dob
		}
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	switch user.Role {
	case model.Student:
		if err := s.updateStudentProfile(userID, in); err != nil {
			return nil, err
		}
	case model.Teacher:
		if err := s.updateTeacherProfile(userID, in); err != nil {
			return nil, err
		}
	}
	return s.Profile(userID)
}

func (s *UserService) updateStudentProfile(userID uint, in *ProfileInput) error {
	p, err := s.ProfileRepo.FindStudentProfile(userID)
	if err != nil {
		return err
	}
	if p == nil {
		p = &model.StudentProfile{
			UserID:                userID,
			PreferredLearningTime: model.LearningTimeFlexible,
			PhysicsInterestLevel:  model.InterestMedium,
		}
	}
	setString(&p.ParentEmail, in.ParentEmail)
	setString(&p.LearningGoals, in.LearningGoals)
	setString(&p.PreferredLearningTime, in.PreferredLearningTime)
	setString(&p.PhysicsInterestLevel, in.PhysicsInterestLevel)
	if !validLearningTime(p.PreferredLearningTime) {
		return invalidf("unknown learning time %q", p.PreferredLearningTime)
	}
	if !validInterest(p.PhysicsInterestLevel) {
		return invalidf("unknown interest level %q", p.PhysicsInterestLevel)
	}
	return s.ProfileRepo.SaveStudentProfile(p)
}

func (s *UserService) updateTeacherProfile(userID uint, in *ProfileInput) error {
	p, err := s.ProfileRepo.FindTeacherProfile(userID)
	if err != nil {
		return err
	}
	if p == nil {
		p = &model.TeacherProfile{UserID: userID}
	}
	setString(&p.Specialization, in.Specialization)
	setString(&p.Qualifications, in.Qualifications)
	setString(&p.SchoolName, in.School)
	if in.YearsExperience != nil {
		if *in.YearsExperience < 0 {
			return invalidf("years of experience must not be negative")
		}
		p.YearsExperience = *in.YearsExperience
	}
	return s.ProfileRepo.SaveTeacherProfile(p)
}

func (s *UserService) LearningProfile(userID uint) (*model.LearningProfile, error) {
	return s.ProfileRepo.FindOrCreateLearningProfile(userID)
}

type LearningProfileInput struct {
	CurrentGradeID         *uint   `json:"currentGradeId"`
	LearningGoals          *string `json:"learningGoals"`
	PreferredLearningStyle *string `json:"preferredLearningStyle"`
	PhysicsBackground      *string `json:"physicsBackground"`
	TimeAvailable          *int    `json:"timeAvailable"`
}

func (s *UserService) UpdateLearningProfile(userID uint, in *LearningProfileInput) (*model.LearningProfile, error) {
	p, err := s.ProfileRepo.FindOrCreateLearningProfile(userID)
	if err != nil {
		return nil, err
	}

	if in.CurrentGradeID != nil {
		if *in.CurrentGradeID == 0 {
			p.CurrentGradeID = nil
		} else {
			if _, err := s.GradeRepo.FindByID(*in.CurrentGradeID); err != nil {
				return nil, notFound(err, util.ErrGradeNotFound)
			}
			p.CurrentGradeID = in.CurrentGradeID
		}
	}
	setString(&p.LearningGoals, in.LearningGoals)
	setString(&p.PreferredLearningStyle, in.PreferredLearningStyle)
	setString(&p.PhysicsBackground, in.PhysicsBackground)
	if !model.ValidLearningStyle(p.PreferredLearningStyle) {
		return nil, invalidf("unknown learning style %q", p.PreferredLearningStyle)
	}
	if !model.ValidPhysicsBackground(p.PhysicsBackground) {
		return nil, invalidf("unknown physics background %q", p.PhysicsBackground)
	}
	if in.TimeAvailable != nil {
		if *in.TimeAvailable <= 0 {
			return nil, invalidf("time available must be positive")
		}
		p.TimeAvailable = *in.TimeAvailable
	}

	if err := s.ProfileRepo.SaveLearningProfile(p); err != nil {
		return nil, err
	}
	return s.ProfileRepo.FindOrCreateLearningProfile(userID)
}

// ListUsers 后台用户列表
func (s *UserService) ListUsers(filter repository.UserFilter) ([]model.User, int64, error) {
	if filter.Role != "" && !model.ValidRole(filter.Role) {
		return nil, 0, invalidf("unknown role %q", filter.Role)
	}
	return s.UserRepo.List(filter)
}

// SetDisabled 启用/禁用账号，管理员不能禁用自己
func (s *UserService) SetDisabled(operatorID, userID uint, disabled bool) (*model.User, error) {
	if operatorID == userID && disabled {
		return nil, invalidf("cannot disable your own account")
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}
	if err := s.UserRepo.SetDisabled(userID, disabled); err != nil {
		return nil, err
	}
	logger.Log.Info("user status changed",
		zap.Uint("operatorID", operatorID),
		zap.Uint("userID", userID),
		zap.Bool("disabled", disabled),
	)
	return s.UserRepo.FindByID(userID)
}
