package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pdv/internal/core/apperror"
	appctx "pdv/internal/core/context"
	"pdv/internal/core/id"
	"pdv/internal/core/security"
	"pdv/internal/core/tx"
	"pdv/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
	SessionTTL        time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 6,
		SessionTTL:        12 * time.Hour,
	}
}

// Service owns the login lifecycle: Login creates a session in the injected
// store, Authenticate restores it from a bearer token and Logout ends it.
type Service struct {
	userRepo   UserRepository
	sessions   SessionStore
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
	now        func() time.Time
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	sessions SessionStore,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	if txManager == nil {
		txManager = tx.Noop{}
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = jwtService.TTL()
	}
	return &Service{
		userRepo:   userRepo,
		sessions:   sessions,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
		now:        time.Now,
	}
}

// Init checks that the session store is reachable. Called once on boot.
func (s *Service) Init(ctx context.Context) error {
	if err := s.sessions.Ping(ctx); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	logger.Info(ctx, "session store ready", "session_ttl", s.config.SessionTTL.String())
	return nil
}

// Login authenticates user and opens a session.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, apperror.NewValidation("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if uerr := s.userRepo.Update(ctx, user); uerr != nil {
			logger.Warn(ctx, "failed to record failed login", "user_id", user.ID, "error", uerr)
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	now := s.now().UTC()
	sess := &Session{
		ID:        id.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}
	if err := s.sessions.Save(ctx, sess, s.config.SessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user.RecordSuccessfulLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"email", user.Email,
		"session_id", sess.ID)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Authenticate validates a bearer token and returns the user of its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*appctx.UserContext, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}
	if claims.SessionID == "" {
		return nil, apperror.NewUnauthorized("token has no session")
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if _, ok := apperror.AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, apperror.NewUnauthorized("session expired")
	}
	if sess.UserID.String() != claims.UserID {
		return nil, apperror.NewUnauthorized("session does not match token")
	}

	return &appctx.UserContext{
		UserID:    sess.UserID.String(),
		Name:      sess.Name,
		Email:     sess.Email,
		Role:      string(sess.Role),
		SessionID: sess.ID,
	}, nil
}

// Logout ends the current session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperror.NewUnauthorized("no active session")
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	logger.Info(ctx, "user logged out", "session_id", sessionID)
	return nil
}

// Me returns the user of the current request.
func (s *Service) Me(ctx context.Context) (*User, error) {
	uid, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		return nil, apperror.NewUnauthorized("not authenticated")
	}
	return s.GetUserByID(ctx, uid)
}

// CreateUser registers a staff member.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	if req.Role == "" {
		req.Role = security.RoleOperator
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := NewUser(req.Email, req.Name, req.Role, string(hash))
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.Exists(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("check email exists: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("user", "email", user.Email)
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role)

	return user, nil
}

// EnsureUser creates the user unless one with the same email exists.
// Used by the seed command for the initial admin account.
func (s *Service) EnsureUser(ctx context.Context, req CreateUserRequest) (*User, bool, error) {
	existing, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err == nil {
		return existing, false, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, false, err
	}
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// GetUserByID retrieves a user.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists users with filtering.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]User, int, error) {
	return s.userRepo.List(ctx, filter)
}

// SetActive enables or disables a user. Disabling ends all their sessions.
func (s *Service) SetActive(ctx context.Context, userID id.ID, active bool) (*User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active && userID.String() == appctx.GetUserID(ctx) {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot disable your own account")
	}
	user.IsActive = active
	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
			logger.Warn(ctx, "failed to drop sessions", "user_id", userID, "error", err)
		}
	}
	return user, nil
}

// DeleteUser removes a user and all of their sessions.
func (s *Service) DeleteUser(ctx context.Context, userID id.ID) error {
	if userID.String() == appctx.GetUserID(ctx) {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot delete your own account")
	}
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		logger.Warn(ctx, "failed to drop sessions", "user_id", userID, "error", err)
	}
	logger.Info(ctx, "user deleted", "user_id", userID)
	return nil
}
