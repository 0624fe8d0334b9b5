package service

import (
	"encoding/json"
	"fmt"
	"math"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SimulationService struct {
	DB          *gorm.DB
	SimRepo     *repository.SimulationRepository
	SessionRepo *repository.SimulationSessionRepository
	Analytics   *AnalyticsService
	Now         func() time.Time
}

func NewSimulationService(db *gorm.DB, simRepo *repository.SimulationRepository, sessionRepo *repository.SimulationSessionRepository, analytics *AnalyticsService) *SimulationService {
	return &SimulationService{
		DB:          db,
		SimRepo:     simRepo,
		SessionRepo: sessionRepo,
		Analytics:   analytics,
		Now:         time.Now,
	}
}

func (s *SimulationService) List(topicID *uint) ([]model.Simulation, error) {
	return s.SimRepo.List(topicID)
}

func (s *SimulationService) Search(keyword string) ([]model.Simulation, error) {
	if keyword == "" {
		return []model.Simulation{}, nil
	}
	return s.SimRepo.Search(keyword, util.SearchResultLimit)
}

// SimulationDetail 仿真详情及当前会话
type SimulationDetail struct {
	Simulation  *model.Simulation        `json:"simulation"`
	OpenSession *model.SimulationSession `json:"openSession,omitempty"`
	Completed   bool                     `json:"completed"`
}

func (s *SimulationService) Detail(simID, userID uint) (*SimulationDetail, error) {
	sim, err := s.SimRepo.FindByID(simID)
	if err != nil {
		return nil, notFound(err, util.ErrSimulationNotFound)
	}
	if !sim.IsActive {
		return nil, util.ErrSimulationNotFound
	}
	detail := &SimulationDetail{Simulation: sim}
	if userID == 0 {
		return detail, nil
	}

	open, err := s.SessionRepo.FindOpen(userID, simID)
	if err != nil {
		return nil, err
	}
	detail.OpenSession = open
	done, err := s.SessionRepo.CountCompleted(userID, simID)
	if err != nil {
		return nil, err
	}
	detail.Completed = done > 0
	return detail, nil
}

// Start 返回未完成的会话，没有则新建
func (s *SimulationService) Start(userID, simID uint) (*model.SimulationSession, error) {
	var session *model.SimulationSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sim, err := s.SimRepo.WithTx(tx).FindByID(simID)
		if err != nil {
			return notFound(err, util.ErrSimulationNotFound)
		}
		if !sim.IsActive {
			return util.ErrSimulationNotFound
		}

		sessions := s.SessionRepo.WithTx(tx)
		open, err := sessions.FindOpen(userID, simID)
		if err != nil {
			return err
		}
		if open != nil {
			session = open
			return nil
		}

		defaults, err := json.Marshal(DefaultParameterValues(sim.ParameterConfig))
		if err != nil {
			return err
		}
		session = &model.SimulationSession{
			UserID:         userID,
			SimulationID:   simID,
			StartedAt:      s.Now(),
			ParametersUsed: datatypes.JSON(defaults),
		}
		return sessions.Create(session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DefaultParameterValues 参数默认值
func DefaultParameterValues(params []model.SimulationParameter) map[string]interface{} {
	values := make(map[string]interface{}, len(params))
	for _, p := range params {
		if p.DefaultValue == "" {
			continue
		}
		switch p.ParameterType {
		case model.ParamSlider, model.ParamInput:
			if f, err := strconv.ParseFloat(p.DefaultValue, 64); err == nil {
				values[p.Name] = f
				continue
			}
		case model.ParamCheckbox:
			if b, err := strconv.ParseBool(p.DefaultValue); err == nil {
				values[p.Name] = b
				continue
			}
		}
		values[p.Name] = p.DefaultValue
	}
	return values
}

// ValidateParameterValue 按参数定义校验取值，返回规范化后的值
func ValidateParameterValue(p *model.SimulationParameter, value interface{}) (interface{}, error) {
	switch p.ParameterType {
	case model.ParamSlider, model.ParamInput:
		f, ok := toFloat(value)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalidf("parameter %s must be numeric", p.Name)
		}
		if p.MinValue != nil && f < *p.MinValue {
			return nil, invalidf("parameter %s below minimum %v", p.Name, *p.MinValue)
		}
		if p.MaxValue != nil && f > *p.MaxValue {
			return nil, invalidf("parameter %s above maximum %v", p.Name, *p.MaxValue)
		}
		return f, nil
	case model.ParamDropdown:
		var options []interface{}
		if len(p.Options) > 0 {
			if err := json.Unmarshal(p.Options, &options); err != nil {
				return nil, fmt.Errorf("parameter %s has invalid options: %w", p.Name, err)
			}
		}
		given := fmt.Sprint(value)
		for _, opt := range options {
			if fmt.Sprint(opt) == given {
				return opt, nil
			}
		}
		return nil, invalidf("parameter %s value %q is not an option", p.Name, given)
	case model.ParamCheckbox:
		b, ok := value.(bool)
		if !ok {
			return nil, invalidf("parameter %s must be boolean", p.Name)
		}
		return b, nil
	case model.ParamColor:
		str, ok := value.(string)
		if !ok || !isHexColor(str) {
			return nil, invalidf("parameter %s must be a #rrggbb color", p.Name)
		}
		return strings.ToLower(str), nil
	}
	return nil, invalidf("parameter %s has unknown type %q", p.Name, p.ParameterType)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func (s *SimulationService) findOpenSession(repo *repository.SimulationSessionRepository, userID, sessionID uint) (*model.SimulationSession, error) {
	session, err := repo.FindForUser(userID, sessionID)
	if err != nil {
		return nil, notFound(err, util.ErrSessionNotFound)
	}
	if session.IsCompleted {
		return nil, util.ErrSessionCompleted
	}
	return session, nil
}

// SaveParameters 校验并合并参数，记录一次交互
func (s *SimulationService) SaveParameters(userID, sessionID uint, values map[string]interface{}) (*model.SimulationSession, error) {
	if len(values) == 0 {
		return nil, invalidf("no parameters given")
	}

	var session *model.SimulationSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sessions := s.SessionRepo.WithTx(tx)
		var err error
		session, err = s.findOpenSession(sessions, userID, sessionID)
		if err != nil {
			return err
		}
		sim, err := s.SimRepo.WithTx(tx).FindByID(session.SimulationID)
		if err != nil {
			return notFound(err, util.ErrSimulationNotFound)
		}

		defs := make(map[string]*model.SimulationParameter, len(sim.ParameterConfig))
		for i := range sim.ParameterConfig {
			defs[sim.ParameterConfig[i].Name] = &sim.ParameterConfig[i]
		}

		current := map[string]interface{}{}
		if len(session.ParametersUsed) > 0 {
			if err := json.Unmarshal(session.ParametersUsed, &current); err != nil {
				current = map[string]interface{}{}
			}
		}
		for name, value := range values {
			def, ok := defs[name]
			if !ok {
				return invalidf("unknown parameter %s", name)
			}
			normalized, err := ValidateParameterValue(def, value)
			if err != nil {
				return err
			}
			current[name] = normalized
		}

		raw, err := json.Marshal(current)
		if err != nil {
			return err
		}
		session.ParametersUsed = datatypes.JSON(raw)
		session.InteractionsCount++
		return sessions.Save(session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SessionCompletion 完成仿真的结果
type SessionCompletion struct {
	Session         *model.SimulationSession `json:"session"`
	FirstCompletion bool                     `json:"firstCompletion"`
	NewAchievements []model.Achievement      `json:"newAchievements"`
}

// Complete 结束会话；每个仿真首次完成才计入统计
func (s *SimulationService) Complete(userID, sessionID uint) (*SessionCompletion, error) {
	var result *SessionCompletion
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sessions := s.SessionRepo.WithTx(tx)
		session, err := s.findOpenSession(sessions, userID, sessionID)
		if err != nil {
			return err
		}

		before, err := sessions.CountCompleted(userID, session.SimulationID)
		if err != nil {
			return err
		}

		now := s.Now()
		session.IsCompleted = true
		session.CompletedAt = &now
		session.Duration = int(now.Sub(session.StartedAt).Seconds())
		if err := sessions.Save(session); err != nil {
			return err
		}

		result = &SessionCompletion{Session: session, FirstCompletion: before == 0}
		result.NewAchievements, err = s.Analytics.Record(tx, userID, ActivityEvent{SimulationCompleted: before == 0})
		return err
	})
	if err != nil {
		return nil, err
	}

	monitoring.SimulationsCompleted.Inc()
	ObserveAwards(result.NewAchievements)
	logger.Log.Info("simulation session completed",
		zap.Uint("userID", userID),
		zap.Uint("sessionID", sessionID),
		zap.Bool("first", result.FirstCompletion))
	return result, nil
}

// SimulationFeedbackInput 仿真反馈
type SimulationFeedbackInput struct {
	UnderstandingRating int    `json:"understandingRating" binding:"required"`
	DifficultyRating    int    `json:"difficultyRating" binding:"required"`
	HelpfulRating       int    `json:"helpfulRating" binding:"required"`
	Comments            string `json:"comments"`
	ConceptsLearned     string `json:"conceptsLearned"`
	QuestionsArose      string `json:"questionsArose"`
}

func (s *SimulationService) SubmitFeedback(userID, sessionID uint, in *SimulationFeedbackInput) (*model.SimulationFeedback, error) {
	if err := validRating(in.UnderstandingRating, in.DifficultyRating, in.HelpfulRating); err != nil {
		return nil, err
	}
	session, err := s.SessionRepo.FindForUser(userID, sessionID)
	if err != nil {
		return nil, notFound(err, util.ErrSessionNotFound)
	}

	fb := &model.SimulationFeedback{
		SessionID:           session.ID,
		UnderstandingRating: in.UnderstandingRating,
		DifficultyRating:    in.DifficultyRating,
		HelpfulRating:       in.HelpfulRating,
		Comments:            in.Comments,
		ConceptsLearned:     in.ConceptsLearned,
		QuestionsArose:      in.QuestionsArose,
	}
	if err := s.SessionRepo.UpsertFeedback(fb); err != nil {
		return nil, err
	}
	return fb, nil
}
