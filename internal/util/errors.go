package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrInvalidLogin     = errors.New("邮箱或密码错误")
	ErrUserDisabled     = errors.New("账号已被禁用")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidParameter = errors.New("invalid parameter")

	ErrGradeNotFound       = errors.New("grade not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrSimulationNotFound  = errors.New("simulation not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrProgressNotFound    = errors.New("progress not found")
	ErrPathNotFound        = errors.New("learning path not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrNotificationMissing = errors.New("notification not found")

	ErrAttemptLimitReached  = errors.New("attempt limit reached")
	ErrAttemptCompleted     = errors.New("attempt already completed")
	ErrAttemptNotCompleted  = errors.New("attempt not completed")
	ErrTimeLimitExceeded    = errors.New("quiz time limit exceeded")
	ErrQuizInactive         = errors.New("quiz is not active")
	ErrSessionCompleted     = errors.New("session already completed")
	ErrStudySessionEnded    = errors.New("study session already ended")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// IsNotFound 判断是否为资源不存在类错误
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrGradeNotFound, ErrTopicNotFound, ErrQuizNotFound, ErrQuestionNotFound,
		ErrAttemptNotFound, ErrSimulationNotFound, ErrSessionNotFound, ErrProgressNotFound,
		ErrPathNotFound, ErrAchievementNotFound, ErrNotificationMissing,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation 判断是否为业务校验错误
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidParameter, ErrAttemptLimitReached, ErrAttemptCompleted, ErrAttemptNotCompleted,
		ErrTimeLimitExceeded, ErrQuizInactive, ErrSessionCompleted, ErrStudySessionEnded,
		ErrInvalidRating, ErrUnsupportedMediaType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
