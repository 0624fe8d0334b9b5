package database

import (
	"fmt"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/model"
	applog "physics_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Models 参与自动迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.StudentProfile{},
		&model.TeacherProfile{},
		&model.LearningProfile{},
		&model.Notification{},
		&model.Preference{},
		&model.Grade{},
		&model.Topic{},
		&model.TopicContent{},
		&model.TopicMedia{},
		&model.TopicFormula{},
		&model.TopicExperiment{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.QuizAttempt{},
		&model.QuizResponse{},
		&model.QuizFeedback{},
		&model.Simulation{},
		&model.SimulationParameter{},
		&model.SimulationSession{},
		&model.SimulationFeedback{},
		&model.TopicProgress{},
		&model.LearningPath{},
		&model.StudySession{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.LearningAnalytics{},
	}
}

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
			cfg.Database.Charset,
			cfg.Database.ParseTime,
		)
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" {
		// sqlite 单写连接
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	applog.Log.Info("Database connection established", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// OpenSQLite 打开 sqlite 数据库并完成迁移，用于本地开发与测试
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 执行表结构迁移并写入默认数据
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	applog.Log.Info("Database migration completed")

	return seedDefaultAchievements(db)
}

// 默认成就
func seedDefaultAchievements(db *gorm.DB) error {
	defaults := []model.Achievement{
		{
			Name:            "First Steps",
			Description:     "Complete your first physics topic",
			AchievementType: model.AchievementTopicCompletion,
			Icon:            "fas fa-baby",
			Criteria:        datatypes.JSON(`{"topics_completed": 1}`),
			Points:          10,
			IsActive:        true,
		},
		{
			Name:            "Quiz Master",
			Description:     "Score 100% on any quiz",
			AchievementType: model.AchievementQuizMastery,
			Icon:            "fas fa-trophy",
			Criteria:        datatypes.JSON(`{"quiz_score": 100}`),
			Points:          25,
			IsActive:        true,
		},
		{
			Name:            "Simulation Explorer",
			Description:     "Complete 5 different simulations",
			AchievementType: model.AchievementSimulationExplorer,
			Icon:            "fas fa-flask",
			Criteria:        datatypes.JSON(`{"simulations_completed": 5}`),
			Points:          30,
			IsActive:        true,
		},
		{
			Name:            "Learning Streak",
			Description:     "Study for 7 consecutive days",
			AchievementType: model.AchievementStreak,
			Icon:            "fas fa-fire",
			Criteria:        datatypes.JSON(`{"streak_days": 7}`),
			Points:          50,
			IsActive:        true,
		},
	}

	for i := range defaults {
		// 名称唯一索引包含软删除记录，管理员删除后不再重建
		a := defaults[i]
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&a).Error; err != nil {
			return err
		}
	}
	return nil
}
