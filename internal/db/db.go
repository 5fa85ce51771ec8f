package db

import (
	"fmt"
	"log"

	"spectra/internal/config"
	"spectra/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open 建立数据库连接并完成迁移，连接句柄由调用方注入各服务
func Open(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	log.Println("Database connection established")

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
		&models.Vote{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Println("Database migration completed")

	seedOwner(gdb, cfg)
	return gdb, nil
}

// seedOwner 首次启动时创建 owner 账号（配置了 OWNER_* 环境变量才执行）
func seedOwner(gdb *gorm.DB, cfg *config.Config) {
	if cfg.OwnerUsername == "" || cfg.OwnerEmail == "" || cfg.OwnerPassword == "" {
		return
	}

	var count int64
	gdb.Model(&models.User{}).Where("role = ?", models.RoleOwner).Count(&count)
	if count > 0 {
		log.Println("Owner already seeded, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash owner password: %v", err)
		return
	}
	owner := models.User{
		Username:       cfg.OwnerUsername,
		Email:          cfg.OwnerEmail,
		HashedPassword: string(hash),
		Role:           models.RoleOwner,
		IsActive:       true,
	}
	if err := gdb.Create(&owner).Error; err != nil {
		log.Printf("Failed to create owner account: %v", err)
		return
	}
	log.Printf("Initial owner account %q created", owner.Username)
}
