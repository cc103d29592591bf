package auth

import (
	"context"
	"net/http"
)

// AuthType 认证方式
type AuthType string

const (
	AuthTypePAT AuthType = "pat"
	AuthTypeApp AuthType = "app"
)

// Authenticator 提供带认证的 HTTP 客户端，REST 和 GraphQL 客户端共用
type Authenticator interface {
	// HTTPClient 返回注入了认证凭据的 HTTP 客户端
	HTTPClient(ctx context.Context) (*http.Client, error)
	// Type 返回认证方式
	Type() AuthType
}
