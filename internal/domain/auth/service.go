package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	StreamToken(ctx context.Context, employeeID string) (StreamTokenResponse, error)
}
