package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

// stubEmployeeRepository serves a fixed set of employees for login.
type stubEmployeeRepository struct {
	employee.EmployeeRepository
	byUsername map[string]employee.Employee
	err        error
}

func (s *stubEmployeeRepository) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	if s.err != nil {
		return employee.Employee{}, s.err
	}
	emp, ok := s.byUsername[username]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service, *stubEmployeeRepository) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubEmployeeRepository{byUsername: map[string]employee.Employee{
		"alice": {
			ID:           "emp-alice",
			Username:     "alice",
			Name:         "Alice",
			PasswordHash: string(hash),
			Role:         employee.RoleAdmin,
			Shift:        shift.Night,
		},
	}}
	jwtService := jwt.NewJWTService(testSecret, time.Hour)
	return NewAuthService(repo, jwtService), jwtService, repo
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtService, _ := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, time.Now().Unix())
	assert.Equal(t, "emp-alice", resp.Employee.ID)
	assert.Equal(t, "night", resp.Employee.Shift)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	role, _ := token.Get("role")
	assert.Equal(t, "admin", role)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "mallory", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_RepositoryFailure(t *testing.T) {
	svc, _, repo := newTestAuthService(t)
	repo.err = errors.New("connection reset")

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestAuthService_StreamToken(t *testing.T) {
	svc, jwtService, _ := newTestAuthService(t)

	resp, err := svc.StreamToken(context.Background(), "emp-alice")
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)

	employeeID, err := jwtService.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "emp-alice", employeeID)
}
