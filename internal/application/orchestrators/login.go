package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"peminatan/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.User, error)
	Save(ctx context.Context, u account.User) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the identity a session is bound to.
type LoginResult struct {
	UserID   string
	Username string
	Role     string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

// ErrInvalidCredentials never says which of username or password was wrong.
var ErrInvalidCredentials = errors.New("username atau password salah")

// ExecuteLogin validates credentials and returns the identity for session creation.
// A legacy plain-text password is replaced by its hash once it has been verified.
// PRE: none
// POST: Returns the identity on success, ErrInvalidCredentials otherwise
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := deps.AccountStore.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return LoginResult{}, err
	}
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.CheckPassword(input.Password) {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsHashed() {
		if err := user.SetPassword(input.Password); err == nil {
			if err := deps.AccountStore.Save(ctx, user); err != nil {
				slog.Warn("auth_event", "event", "password_upgrade_failed", "username", username, "err", err)
			} else {
				slog.Info("auth_event", "event", "password_upgraded", "username", username)
			}
		}
	}

	slog.Info("auth_event", "event", "login_success", "username", username, "role", user.Role)

	return LoginResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
