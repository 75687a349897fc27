// Package config 负责加载和管理机器人的配置。
package config

import (
	"fmt"
	"os"
	"strings"

	"chihuyufan-go/internal/errs"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件与环境变量加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
// 令牌类字段不放在文件里，由环境变量提供。
type Config struct {
	Discord  DiscordConfig  `mapstructure:"discord"`
	Panel    PanelConfig    `mapstructure:"panel"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Server   ServerConfig   `mapstructure:"server"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Chat     ChatConfig     `mapstructure:"chat"`
}

// DiscordConfig 存储 Discord 网关相关的配置。
type DiscordConfig struct {
	Token   string `mapstructure:"token"`
	GuildID string `mapstructure:"guild_id"`
}

// PanelConfig 存储 Pterodactyl 面板的配置。
// 应用令牌与客户端令牌分别对应面板的 Application API 和 Client API。
type PanelConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AppToken    string `mapstructure:"app_token"`
	ClientToken string `mapstructure:"client_token"`
}

// OpenAIConfig 存储 AI 后端的配置与默认生成参数。
type OpenAIConfig struct {
	Token       string  `mapstructure:"token"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	ImageSize   string  `mapstructure:"image_size"`
}

// DatabaseConfig 存储积分账本 SQLite 数据库的配置。
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig 存储各操作族的授权白名单（actor ID 列表）。
type AuthConfig struct {
	InfraActors   []string `mapstructure:"infra_actors"`
	BoketsuActors []string `mapstructure:"boketsu_actors"`
}

// ServerConfig 存储运维 HTTP 服务（健康检查/状态）的配置。
// Port 为空时不启动该服务。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// TimeoutsConfig 存储外部后端调用的超时（秒）。
type TimeoutsConfig struct {
	Panel int `mapstructure:"panel"`
	AI    int `mapstructure:"ai"`
}

// ChatConfig 存储会话缓存相关的配置。
type ChatConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

// Init 初始化配置加载：先读取 YAML 文件（可缺省），再用环境变量覆盖令牌。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		// 配置文件允许不存在（全部由环境变量提供），但存在却读不了是配置错误
		if _, statErr := os.Stat(configPath); statErr == nil {
			panic(fmt.Errorf("读取配置文件失败: %w", err))
		}
	}

	setDefaults()

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	// 令牌一律以环境变量优先（与原部署方式一致）
	overrideFromEnv(&Conf.Discord.Token, "CHIHUYUFANKT_TOKEN")
	overrideFromEnv(&Conf.Panel.AppToken, "PTERODACTYL_APP_TOKEN")
	overrideFromEnv(&Conf.Panel.ClientToken, "PTERODACTYL_CLIENT_TOKEN")
	overrideFromEnv(&Conf.OpenAI.Token, "OPENAI_TOKEN")
}

func setDefaults() {
	viper.SetDefault("database.path", "./data.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")
	viper.SetDefault("openai.image_size", "1024x1024")
	viper.SetDefault("timeouts.panel", 15)
	viper.SetDefault("timeouts.ai", 60)
	viper.SetDefault("chat.max_turns", 40)
	viper.SetDefault("server.mode", "release")
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate 检查所有必需项。缺少任何一个令牌都是致命的启动错误，
// 进程不应继续进入事件循环。
func (c Config) Validate() error {
	var missing []string
	if c.Discord.Token == "" {
		missing = append(missing, "CHIHUYUFANKT_TOKEN")
	}
	if c.Panel.BaseURL == "" {
		missing = append(missing, "panel.base_url")
	}
	if c.Panel.AppToken == "" {
		missing = append(missing, "PTERODACTYL_APP_TOKEN")
	}
	if c.Panel.ClientToken == "" {
		missing = append(missing, "PTERODACTYL_CLIENT_TOKEN")
	}
	if c.OpenAI.Token == "" {
		missing = append(missing, "OPENAI_TOKEN")
	}
	if len(missing) > 0 {
		return errs.Config("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
