package repository

import (
	"physics_edu_backend/internal/model"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SimulationRepository struct {
	DB *gorm.DB
}

func NewSimulationRepository(db *gorm.DB) *SimulationRepository {
	return &SimulationRepository{DB: db}
}

func (r *SimulationRepository) WithTx(tx *gorm.DB) *SimulationRepository {
	return &SimulationRepository{DB: tx}
}

func orderedParameters(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *SimulationRepository) List(topicID *uint) ([]model.Simulation, error) {
	query := r.DB.Preload("Topic").Where("is_active = ?", true)
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	}
	var sims []model.Simulation
	err := query.Order("topic_id ASC, sort_order ASC, id ASC").Find(&sims).Error
	return sims, err
}

func (r *SimulationRepository) ListAll(topicID *uint) ([]model.Simulation, error) {
	query := r.DB.Preload("Topic")
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	}
	var sims []model.Simulation
	err := query.Order("topic_id ASC, sort_order ASC, id ASC").Find(&sims).Error
	return sims, err
}

func (r *SimulationRepository) ListByTopic(topicID uint) ([]model.Simulation, error) {
	var sims []model.Simulation
	err := r.DB.Where("topic_id = ? AND is_active = ?", topicID, true).
		Order("sort_order ASC, id ASC").
		Find(&sims).Error
	return sims, err
}

func (r *SimulationRepository) FindByID(id uint) (*model.Simulation, error) {
	var sim model.Simulation
	err := r.DB.Preload("Topic").
		Preload("ParameterConfig", orderedParameters).
		First(&sim, id).Error
	return &sim, err
}

func (r *SimulationRepository) FindBySlug(slug string) (*model.Simulation, error) {
	var sim model.Simulation
	err := r.DB.Preload("Topic").
		Preload("ParameterConfig", orderedParameters).
		Where("slug = ?", slug).
		First(&sim).Error
	return &sim, err
}

func (r *SimulationRepository) Search(keyword string, limit int) ([]model.Simulation, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var sims []model.Simulation
	err := r.DB.Preload("Topic").
		Where("is_active = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(learning_objectives) LIKE ?", like, like, like).
		Order("id ASC").
		Limit(limit).
		Find(&sims).Error
	return sims, err
}

func (r *SimulationRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Unscoped().Model(&model.Simulation{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *SimulationRepository) Create(sim *model.Simulation) error {
	return r.DB.Omit("Topic").Create(sim).Error
}

func (r *SimulationRepository) Update(sim *model.Simulation) error {
	return r.DB.Omit(clause.Associations).Save(sim).Error
}

func (r *SimulationRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Simulation{}, id)
	return res.RowsAffected, res.Error
}

func (r *SimulationRepository) ReplaceParameters(simID uint, params []model.SimulationParameter) error {
	if err := r.DB.Where("simulation_id = ?", simID).Delete(&model.SimulationParameter{}).Error; err != nil {
		return err
	}
	for i := range params {
		params[i].SimulationID = simID
		if err := r.DB.Create(&params[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

type SimulationSessionRepository struct {
	DB *gorm.DB
}

func NewSimulationSessionRepository(db *gorm.DB) *SimulationSessionRepository {
	return &SimulationSessionRepository{DB: db}
}

func (r *SimulationSessionRepository) WithTx(tx *gorm.DB) *SimulationSessionRepository {
	return &SimulationSessionRepository{DB: tx}
}

// FindOpen 用户在该仿真上未完成的会话，不存在返回 nil
func (r *SimulationSessionRepository) FindOpen(userID, simID uint) (*model.SimulationSession, error) {
	var session model.SimulationSession
	err := r.DB.Where("user_id = ? AND simulation_id = ? AND is_completed = ?", userID, simID, false).
		Order("started_at DESC").
		Limit(1).
		Find(&session).Error
	if err != nil || session.ID == 0 {
		return nil, err
	}
	return &session, nil
}

func (r *SimulationSessionRepository) FindForUser(userID, sessionID uint) (*model.SimulationSession, error) {
	var session model.SimulationSession
	err := r.DB.Where("user_id = ?", userID).First(&session, sessionID).Error
	return &session, err
}

func (r *SimulationSessionRepository) Create(session *model.SimulationSession) error {
	return r.DB.Omit(clause.Associations).Create(session).Error
}

func (r *SimulationSessionRepository) Save(session *model.SimulationSession) error {
	return r.DB.Omit(clause.Associations).Save(session).Error
}

// CountCompleted 已完成该仿真的会话数
func (r *SimulationSessionRepository) CountCompleted(userID, simID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SimulationSession{}).
		Where("user_id = ? AND simulation_id = ? AND is_completed = ?", userID, simID, true).
		Count(&count).Error
	return count, err
}

func (r *SimulationSessionRepository) ListByUser(userID uint, limit int) ([]model.SimulationSession, error) {
	var sessions []model.SimulationSession
	err := r.DB.Preload("Simulation").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *SimulationSessionRepository) FindFeedback(sessionID uint) (*model.SimulationFeedback, error) {
	var fb model.SimulationFeedback
	err := r.DB.Where("session_id = ?", sessionID).Limit(1).Find(&fb).Error
	if err != nil || fb.ID == 0 {
		return nil, err
	}
	return &fb, nil
}

func (r *SimulationSessionRepository) UpsertFeedback(fb *model.SimulationFeedback) error {
	existing, err := r.FindFeedback(fb.SessionID)
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
