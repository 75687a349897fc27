package database

import (
	"chihuyufan-go/internal/model"
	"chihuyufan-go/pkg/log"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitSQLite 初始化积分账本使用的 SQLite 数据库连接。
// 驱动是纯 Go 实现，文件不存在时会自动创建。
func InitSQLite(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database", err)
	}

	// SQLite 是单写者模型，限制连接数避免 SQLITE_BUSY
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// 建表属于启动准备工作，缺表时补齐
	if err := DB.AutoMigrate(&model.BoketsuPoint{}); err != nil {
		log.Fatal("failed to migrate boketsu_points", err)
	}

	log.Info("SQLite database connected successfully")
}
