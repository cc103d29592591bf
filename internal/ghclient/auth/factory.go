package auth

import (
	"fmt"

	"github.com/qiniu/reviewsync/internal/config"

	"github.com/qiniu/x/log"
)

// BuildAuthenticator 根据配置构建认证器
// 同时配置了 GitHub App 和 PAT 时优先 App，App 构建失败回退到 PAT
func BuildAuthenticator(cfg *config.Config) (Authenticator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	if cfg.IsGitHubAppConfigured() {
		appAuth, err := buildAppAuthenticator(cfg)
		if err == nil {
			return appAuth, nil
		}
		log.Warnf("GitHub App configuration failed, falling back to PAT: %v", err)
	}

	if cfg.IsGitHubTokenConfigured() {
		return NewPATAuthenticator(cfg.GitHub.Token), nil
	}

	return nil, fmt.Errorf("no valid GitHub authentication configuration found")
}

func buildAppAuthenticator(cfg *config.Config) (Authenticator, error) {
	app := cfg.GitHub.App

	if app.PrivateKeyPath != "" {
		return NewAppAuthenticatorFromFile(app.AppID, app.InstallationID, app.PrivateKeyPath)
	}
	if app.PrivateKey != "" {
		return NewAppAuthenticator(app.AppID, app.InstallationID, []byte(app.PrivateKey))
	}
	return nil, fmt.Errorf("no private key source configured")
}
