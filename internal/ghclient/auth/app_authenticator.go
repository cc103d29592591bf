package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
)

// AppAuthenticator 基于 GitHub App installation 的认证
// ghinstallation 负责 JWT 签发和 installation token 的缓存刷新
type AppAuthenticator struct {
	transport *ghinstallation.Transport
}

// NewAppAuthenticator 用内存中的私钥创建 App 认证器
func NewAppAuthenticator(appID, installationID int64, privateKey []byte) (*AppAuthenticator, error) {
	transport, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	return &AppAuthenticator{transport: transport}, nil
}

// NewAppAuthenticatorFromFile 从私钥文件创建 App 认证器
func NewAppAuthenticatorFromFile(appID, installationID int64, privateKeyPath string) (*AppAuthenticator, error) {
	transport, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport from %s: %w", privateKeyPath, err)
	}
	return &AppAuthenticator{transport: transport}, nil
}

// HTTPClient 返回使用 installation transport 的 HTTP 客户端
func (a *AppAuthenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	return &http.Client{Transport: a.transport}, nil
}

// Type 返回认证方式
func (a *AppAuthenticator) Type() AuthType {
	return AuthTypeApp
}
