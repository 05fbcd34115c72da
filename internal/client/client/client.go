package client

import "context"

type AuthResponse struct {
	ID          string `json:"id"`
	UserName    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

type Identity struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

// HealthStatus combines /health and /db/health.
type HealthStatus struct {
	OK      bool
	DB      string
	DBError string
}

type Client interface {
	Register(ctx context.Context, userName, email, password string) (*AuthResponse, error)
	Login(ctx context.Context, login, password string) (*AuthResponse, error)
	Me(ctx context.Context, accessToken string) (*Identity, error)
	Health(ctx context.Context) (*HealthStatus, error)
}
