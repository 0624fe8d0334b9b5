// @title Physics Hub 后端 API
// @version 1.0
// @description Physics Hub 物理学习平台的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"
	"physics_edu_backend/internal/app"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/pkg/logger"
	_ "time/tzdata"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seed := flag.String("seed", "", "迁移后导入 YAML 课程数据，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly || *seed != ""
	cfg.MigrateOnly = *migrateOnly || *seed != ""

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *seed != "" {
		if err := application.Seed(context.Background(), *seed); err != nil {
			logger.Log.Fatal("Seed failed", zap.String("path", *seed), zap.Error(err))
		}
		return
	}

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
