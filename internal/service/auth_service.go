package service

import (
	"errors"
	"strings"
	"time"

	"series_guide/configs"
	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"
	"series_guide/pkg/metrics"
	"series_guide/pkg/password"
	"series_guide/util"

	"github.com/badoux/checkmail"
)

type IAuthService interface {
	AdminLogin(identifier string, password string) (*Session, error)
	UserLogin(email string, password string) (*Session, error)
	Register(username string, email string, password string) (*Session, error)
	Logout(token string, expiresAt time.Time) error
	IsTokenRevoked(token string) bool
}

// Session is a freshly signed token for one of the two cookie tracks.
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	userRepo repository.IUserRepository
	cache    ICacheService
	hasher   *password.Hasher
}

func NewAuthService(userRepo repository.IUserRepository, cache ICacheService, hasher *password.Hasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cache:    cache,
		hasher:   hasher,
	}
}

//------------------------------------------
//------------------------------------------

func (s *AuthService) AdminLogin(identifier string, pass string) (*Session, error) {
	user, err := s.userRepo.GetUserByIdentifier(identifier)
	if err != nil {
		errorHandler.SaveError("error on finding admin user", err)
		return nil, ErrServer
	}
	if user == nil {
		metrics.LoginAttempts.WithLabelValues("admin", "unknown_user").Inc()
		return nil, ErrInvalidCredentials
	}
	if ok, err := s.checkPassword(user, pass); err != nil {
		return nil, err
	} else if !ok {
		metrics.LoginAttempts.WithLabelValues("admin", "wrong_password").Inc()
		return nil, ErrInvalidCredentials
	}
	if user.Role != model.AdminRole {
		metrics.LoginAttempts.WithLabelValues("admin", "forbidden").Inc()
		return nil, ErrAdminOnly
	}
	if !user.IsActive {
		metrics.LoginAttempts.WithLabelValues("admin", "disabled").Inc()
		return nil, ErrAccountDisabled
	}

	s.touchLastLogin(user)
	token, expiresAt, err := util.CreateAdminToken(user.Id.Hex(), user.Username)
	if err != nil {
		errorHandler.SaveError("error on signing admin token", err)
		return nil, ErrServer
	}
	metrics.LoginAttempts.WithLabelValues("admin", "success").Inc()
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// UserLogin checks the account state before the password, so admins and
// disabled users get 403 regardless of what they typed.
func (s *AuthService) UserLogin(email string, pass string) (*Session, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		errorHandler.SaveError("error on finding user", err)
		return nil, ErrServer
	}
	if user == nil {
		metrics.LoginAttempts.WithLabelValues("public", "unknown_user").Inc()
		return nil, ErrInvalidCredentials
	}
	if user.Role == model.AdminRole {
		metrics.LoginAttempts.WithLabelValues("public", "forbidden").Inc()
		return nil, ErrUseAdminPanel
	}
	if !user.IsActive {
		metrics.LoginAttempts.WithLabelValues("public", "disabled").Inc()
		return nil, ErrAccountDisabled
	}
	if ok, err := s.checkPassword(user, pass); err != nil {
		return nil, err
	} else if !ok {
		metrics.LoginAttempts.WithLabelValues("public", "wrong_password").Inc()
		return nil, ErrInvalidCredentials
	}

	s.touchLastLogin(user)
	session, err := s.publicSession(user)
	if err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues("public", "success").Inc()
	return session, nil
}

func (s *AuthService) Register(username string, email string, pass string) (*Session, error) {
	if configs.GetDbConfigs().DisableRegistration {
		return nil, ErrRegistrationClosed
	}
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if problems := password.ValidateStrength(pass); len(problems) > 0 {
		return nil, WeakPasswordError(problems)
	}

	if existing, err := s.userRepo.GetUserByEmail(email); err != nil {
		errorHandler.SaveError("error on checking email", err)
		return nil, ErrServer
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.userRepo.GetUserByIdentifier(username); err != nil {
		errorHandler.SaveError("error on checking username", err)
		return nil, ErrServer
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		errorHandler.SaveError("error on hashing password", err)
		return nil, ErrServer
	}
	user := model.NewUser(username, email, hash, model.UserRoleName)
	if _, err = s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost a race against a concurrent registration
			return nil, newError(ErrConflict, "This username or email already exists")
		}
		errorHandler.SaveError("error on creating user", err)
		return nil, ErrServer
	}
	return s.publicSession(user)
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	if err := s.cache.RevokeJwt(token, time.Until(expiresAt)); err != nil {
		return ErrServer
	}
	return nil
}

func (s *AuthService) IsTokenRevoked(token string) bool {
	return s.cache.IsJwtRevoked(token)
}

//------------------------------------------
//------------------------------------------

// checkPassword verifies and, on a legacy match, stores the bcrypt upgrade.
// A failed upgrade does not fail the login.
func (s *AuthService) checkPassword(user *model.User, pass string) (bool, error) {
	result, err := s.hasher.VerifyWithMigration(pass, user.Password)
	if err != nil {
		errorHandler.SaveError("error on verifying password", err)
		return false, ErrServer
	}
	if !result.IsValid {
		return false, nil
	}
	if result.NeedsUpdate {
		if err = s.userRepo.UpdateUserPassword(user.Id, result.NewHash); err != nil {
			errorHandler.SaveError("error on migrating legacy password", err)
		} else {
			user.Password = result.NewHash
			metrics.PasswordMigrations.WithLabelValues(string(result.Scheme)).Inc()
		}
	}
	return true, nil
}

func (s *AuthService) touchLastLogin(user *model.User) {
	if err := s.userRepo.UpdateLastLogin(user.Id); err != nil {
		errorHandler.SaveError("error on updating lastLogin", err)
		return
	}
	now := time.Now().UTC()
	user.LastLogin = &now
}

func (s *AuthService) publicSession(user *model.User) (*Session, error) {
	token, expiresAt, err := util.CreatePublicUserToken(user.Id.Hex(), user.Username, user.Email)
	if err != nil {
		errorHandler.SaveError("error on signing user token", err)
		return nil, ErrServer
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
