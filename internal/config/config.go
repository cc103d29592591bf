package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/qiniu/reviewsync/pkg/models"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	GitHub  GitHubConfig  `yaml:"github"`
	Repo    RepoConfig    `yaml:"repo"`
	Session SessionConfig `yaml:"session"`
	Sync    SyncConfig    `yaml:"sync"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type GitHubConfig struct {
	Token string          `yaml:"token"`
	App   GitHubAppConfig `yaml:"app"`
}

// GitHubAppConfig GitHub App 认证配置，优先于 PAT
type GitHubAppConfig struct {
	AppID          int64  `yaml:"app_id"`
	InstallationID int64  `yaml:"installation_id"`
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyPath string `yaml:"private_key_path"`
}

type RepoConfig struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// SessionConfig 当前评审 session 的身份信息
// SessionID 和 ClientVersion 会作为隐藏元数据写入每个新建的 issue
type SessionConfig struct {
	SessionID     string       `yaml:"session_id"`
	ClientVersion string       `yaml:"client_version"`
	Phase         models.Phase `yaml:"phase"`
	TeamID        string       `yaml:"team_id"`
}

type SyncConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	PageSize     int           `yaml:"page_size"`
}

func Load(configPath string) (*Config, error) {
	// 首先尝试从文件加载
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var config Config
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// 从环境变量覆盖敏感配置
		config.loadFromEnv()
		config.applyDefaults()

		return &config, nil
	}

	// 如果文件不存在，从环境变量创建配置
	config := loadFromEnv()
	config.applyDefaults()
	return config, nil
}

func (c *Config) loadFromEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if appID := os.Getenv("GITHUB_APP_ID"); appID != "" {
		if id, err := strconv.ParseInt(appID, 10, 64); err == nil {
			c.GitHub.App.AppID = id
		}
	}
	if instID := os.Getenv("GITHUB_APP_INSTALLATION_ID"); instID != "" {
		if id, err := strconv.ParseInt(instID, 10, 64); err == nil {
			c.GitHub.App.InstallationID = id
		}
	}
	if key := os.Getenv("GITHUB_APP_PRIVATE_KEY"); key != "" {
		c.GitHub.App.PrivateKey = key
	}
	if session := os.Getenv("SESSION_ID"); session != "" {
		c.Session.SessionID = session
	}
	if phase := os.Getenv("SESSION_PHASE"); phase != "" {
		c.Session.Phase = models.Phase(phase)
	}
	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			c.Server.Port = port
		}
	}
}

func loadFromEnv() *Config {
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: port,
		},
		GitHub: GitHubConfig{
			Token: os.Getenv("GITHUB_TOKEN"),
		},
		Repo: RepoConfig{
			Owner: os.Getenv("REPO_OWNER"),
			Name:  os.Getenv("REPO_NAME"),
		},
		Session: SessionConfig{
			SessionID:     os.Getenv("SESSION_ID"),
			ClientVersion: getEnvOrDefault("CLIENT_VERSION", "dev"),
			Phase:         models.Phase(os.Getenv("SESSION_PHASE")),
			TeamID:        os.Getenv("TEAM_ID"),
		},
	}
	cfg.loadFromEnv()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Sync.PollInterval <= 0 {
		c.Sync.PollInterval = 5 * time.Minute
	}
	if c.Sync.PageSize <= 0 {
		c.Sync.PageSize = 100
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// Validate 检查启动所必需的配置项
func (c *Config) Validate() error {
	if c.Repo.Owner == "" || c.Repo.Name == "" {
		return fmt.Errorf("repo owner and name are required")
	}
	if !c.IsGitHubTokenConfigured() && !c.IsGitHubAppConfigured() {
		return fmt.Errorf("no GitHub authentication configured (token or app)")
	}
	if c.Session.Phase != "" && !models.IsValidPhase(c.Session.Phase) {
		return fmt.Errorf("unknown session phase: %s", c.Session.Phase)
	}
	return nil
}

// IsGitHubTokenConfigured 是否配置了 PAT
func (c *Config) IsGitHubTokenConfigured() bool {
	return c.GitHub.Token != ""
}

// IsGitHubAppConfigured 是否配置了 GitHub App
func (c *Config) IsGitHubAppConfigured() bool {
	app := c.GitHub.App
	return app.AppID > 0 && app.InstallationID > 0 &&
		(app.PrivateKey != "" || app.PrivateKeyPath != "")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
