package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// PATAuthenticator 基于个人访问令牌的认证
type PATAuthenticator struct {
	token string
}

// NewPATAuthenticator 创建 PAT 认证器
func NewPATAuthenticator(token string) *PATAuthenticator {
	return &PATAuthenticator{token: token}
}

// HTTPClient 返回携带静态 token 的 HTTP 客户端
func (p *PATAuthenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	if p.token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: p.token},
	)
	return oauth2.NewClient(ctx, ts), nil
}

// Type 返回认证方式
func (p *PATAuthenticator) Type() AuthType {
	return AuthTypePAT
}
