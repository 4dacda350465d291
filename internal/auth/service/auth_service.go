package service

import (
	"context"
	"errors"
	"sync"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	commoncrypto "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/crypto"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/validation"
	sessiondomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
	userrepo "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/repository"
)

type SessionManager interface {
	Open(ctx context.Context, identity userdomain.Identity) (sessiondomain.Token, error)
	Close(ctx context.Context, token sessiondomain.Token) error
}

type AuthServiceDeps struct {
	Users       userrepo.Repository
	Sessions    SessionManager
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Validator   *validation.Validator
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthService struct {
	users       userrepo.Repository
	sessions    SessionManager
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	validator   *validation.Validator
	clock       clock.Clock
	log         *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	return &AuthService{
		users:       deps.Users,
		sessions:    deps.Sessions,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		validator:   v,
		clock:       clk,
		log:         deps.Log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.Identity, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validator.Struct(input); err != nil {
		recordRegistration("invalid")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.Identity{}, validation.ToDomainError(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.Identity{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return userdomain.Identity{}, err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	// Uniqueness is left to the storage constraint so concurrent registrations
	// of one username cannot both succeed.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			recordRegistration("duplicate")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return userdomain.Identity{}, ErrUsernameTaken
		}
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.Identity{}, err
	}

	recordRegistration("success")
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user.Identity(), nil
}

// Verify checks a username/password pair. An unknown username and a wrong
// password fail with the same ErrInvalidCredentials.
func (s *AuthService) Verify(ctx context.Context, input LoginInput) (userdomain.Identity, error) {
	if err := s.validator.Struct(input); err != nil {
		recordLogin("invalid")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return userdomain.Identity{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.burnCompare(input.Password)
			recordLogin("failure")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: invalid credentials")
			return userdomain.Identity{}, ErrInvalidCredentials
		}
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return userdomain.Identity{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		if !errors.Is(err, commoncrypto.ErrPasswordMismatch) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(user.ID),
				"action":  "login_hash_compare_failed",
			}).Errorf("login failed: stored hash unusable: %v", err)
		}
		recordLogin("failure")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid credentials")
		return userdomain.Identity{}, ErrInvalidCredentials
	}

	recordLogin("success")
	return user.Identity(), nil
}

// Login verifies the credentials and opens a session for the identity.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (userdomain.Identity, sessiondomain.Token, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	identity, err := s.Verify(ctx, input)
	if err != nil {
		return userdomain.Identity{}, "", err
	}

	token, err := s.sessions.Open(ctx, identity)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.ID),
			"action":  "login_session_open_failed",
		}).Errorf("login failed: session open error: %v", err)
		return userdomain.Identity{}, "", err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": identity.Username,
		"user_id":  string(identity.ID),
		"action":   "login_success",
	}).Info("login success")

	return identity, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token sessiondomain.Token) error {
	if err := s.sessions.Close(ctx, token); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_failed",
		}).Errorf("logout failed: %v", err)
		return err
	}
	s.log.WithFields(ctx, logger.Fields{
		"action": "logout",
	}).Info("logout")
	return nil
}

// burnCompare spends a hash comparison on unknown usernames so both failure
// paths take comparable time.
func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("tracker-placeholder-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}
