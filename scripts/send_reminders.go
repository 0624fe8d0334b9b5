// 手动触发学习提醒与每周报告
//
// 定时任务开启后每天自动执行。此脚本用于补发或排查，例如调度器停用期间。
//
// 用法: go run scripts/send_reminders.go [-weekly]

package main

import (
	"context"
	"flag"
	"log"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/pkg/database"
	"physics_edu_backend/pkg/logger"
	"time"
)

func main() {
	weekly := flag.Bool("weekly", false, "发送每周学习报告而不是每日提醒")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	reminders := service.NewReminderService(
		repository.NewUserRepository(db),
		repository.NewPreferenceRepository(db),
		repository.NewAnalyticsRepository(db),
		repository.NewStudySessionRepository(db),
		service.NewNotificationService(repository.NewNotificationRepository(db), repository.NewPreferenceRepository(db)),
		service.NewMailer(&cfg.Mail),
		cfg.Scheduler,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var n int
	if *weekly {
		log.Println("手动发送每周学习报告...")
		n, err = reminders.SendWeeklyReports(ctx)
	} else {
		log.Println("手动发送每日学习提醒...")
		n, err = reminders.SendDailyReminders(ctx)
	}
	if err != nil {
		log.Fatalf("发送失败: %v", err)
	}
	log.Printf("完成！共 %d 条", n)
}
