package handler

import (
	"net/http"
	"time"

	"chihuyufan-go/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler 提供运维用的健康检查与状态接口。
type HealthHandler struct {
	db        *gorm.DB
	cache     *session.Cache
	startedAt time.Time
}

// NewHealthHandler 创建一个新的 HealthHandler 实例。
func NewHealthHandler(db *gorm.DB, cache *session.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, startedAt: time.Now()}
}

// Healthz 是存活探针。
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status 返回运行时指标：运行时长、活跃会话数、数据库连通性。
func (h *HealthHandler) Status(c *gin.Context) {
	dbOK := true
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbOK = false
	}
	c.JSON(http.StatusOK, gin.H{
		"uptime":          time.Since(h.startedAt).Truncate(time.Second).String(),
		"active_sessions": h.cache.Len(),
		"database":        dbOK,
	})
}
