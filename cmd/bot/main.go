// Package main 是机器人的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chihuyufan-go/internal/auth"
	"chihuyufan-go/internal/config"
	"chihuyufan-go/internal/gateway"
	"chihuyufan-go/internal/handler"
	"chihuyufan-go/internal/repository"
	"chihuyufan-go/internal/service"
	"chihuyufan-go/internal/session"
	"chihuyufan-go/pkg/database"
	"chihuyufan-go/pkg/log"
	"chihuyufan-go/pkg/openai"
	"chihuyufan-go/pkg/ptero"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// version 由构建时 -ldflags 注入。
var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "chihuyufan",
		Short: "Discord bot for the chihuyufan server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "./configs/config.yaml", "path to config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("chihuyufan " + version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. 初始化配置
	config.Init(configPath)
	cfg := config.Conf
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库
	database.InitSQLite(cfg.Database.Path)

	// 4. 初始化 Repository 与会话缓存
	pointsRepo := repository.NewPointsRepository(database.DB)
	sessionCache := session.NewCache(cfg.Chat.MaxTurns)

	// 5. 初始化外部后端客户端与 Service (依赖注入)
	panelTimeout := time.Duration(cfg.Timeouts.Panel) * time.Second
	aiTimeout := time.Duration(cfg.Timeouts.AI) * time.Second

	clientAPI := ptero.NewClient(cfg.Panel.BaseURL, cfg.Panel.ClientToken, panelTimeout)
	appAPI := ptero.NewApplication(cfg.Panel.BaseURL, cfg.Panel.AppToken, panelTimeout)
	aiClient := openai.NewClient(cfg.OpenAI, aiTimeout)

	panelService := service.NewPanelService(clientAPI, appAPI)
	chatService := service.NewChatService(sessionCache, aiClient)
	gate := auth.NewGate(cfg.Auth.InfraActors, cfg.Auth.BoketsuActors)

	// 6. 组装网关与调度器
	gw, err := gateway.New(cfg.Discord.Token, cfg.Discord.GuildID)
	if err != nil {
		return err
	}
	h := handler.NewInteractionHandler(gate, pointsRepo, chatService, panelService,
		gw, handler.Options{
			PanelBaseURL: cfg.Panel.BaseURL,
			PanelTimeout: panelTimeout,
			AITimeout:    aiTimeout,
		})
	gw.Attach(h)

	if err := gw.Open(); err != nil {
		return err
	}
	defer gw.Close()
	log.Info("机器人已连接网关并注册命令")

	// 7. 可选的运维 HTTP 服务（健康检查/状态），Port 为空时不启动
	var srv *http.Server
	if cfg.Server.Port != "" {
		gin.SetMode(cfg.Server.Mode)
		r := gin.New()
		r.Use(gin.Recovery())

		healthHandler := handler.NewHealthHandler(database.DB, sessionCache)
		r.GET("/healthz", healthHandler.Healthz)
		r.GET("/status", healthHandler.Status)

		srv = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: r,
		}
		go func() {
			log.Infof("运维服务启动于 %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal("运维服务监听失败", err)
			}
		}()
	}

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("运维服务关闭失败", err)
		}
	}

	log.Info("服务已优雅关闭")
	return nil
}
