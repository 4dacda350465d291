package service

import (
	"context"
	"errors"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	commoncrypto "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/crypto"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/repository"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type SessionServiceDeps struct {
	Repo        repository.Repository
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Secret      string
	TTL         time.Duration
	Log         *logger.Logger
}

type SessionService struct {
	repo        repository.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	codec       *TokenCodec
	ttl         time.Duration
	log         *logger.Logger
}

func NewSessionService(deps SessionServiceDeps) *SessionService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &SessionService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		clock:       clk,
		codec:       NewTokenCodec(deps.Secret, clk),
		ttl:         deps.TTL,
		log:         deps.Log,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) Open(ctx context.Context, identity userdomain.Identity) (domain.Token, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.ID),
			"action":  "session_id_generation_failed",
		}).Errorf("open session failed: id generation error: %v", err)
		return "", err
	}

	now := s.clock.Now()
	session := domain.Session{
		ID:        domain.ID(id),
		UserID:    identity.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	token, err := s.codec.Sign(session)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.ID),
			"action":  "session_sign_failed",
		}).Errorf("open session failed: sign error: %v", err)
		return "", err
	}

	if err := s.repo.Create(ctx, session); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.ID),
			"action":  "session_create_failed",
		}).Errorf("open session failed: %v", err)
		return "", err
	}

	metrics.SessionsOpened.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":    string(identity.ID),
		"session_id": string(session.ID),
		"action":     "session_opened",
	}).Info("session opened")

	return token, nil
}

// Current resolves a token to its identity. A missing, malformed, expired or
// closed token yields ok=false with a nil error; only storage faults are
// returned as errors.
func (s *SessionService) Current(ctx context.Context, token domain.Token) (userdomain.Identity, bool, error) {
	if token == "" {
		metrics.SessionLookupsTotal.WithLabelValues("absent").Inc()
		return userdomain.Identity{}, false, nil
	}

	claims, err := s.codec.Parse(token)
	if err != nil {
		metrics.SessionLookupsTotal.WithLabelValues("invalid").Inc()
		if s.log.ShouldLog(logger.DEBUG) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "session_token_rejected",
			}).Debugf("session token rejected: %v", err)
		}
		return userdomain.Identity{}, false, nil
	}

	active, err := s.repo.FindActive(ctx, domain.ID(claims.SessionID), s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			metrics.SessionLookupsTotal.WithLabelValues("closed").Inc()
			return userdomain.Identity{}, false, nil
		}
		metrics.SessionLookupsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"session_id": claims.SessionID,
			"action":     "session_lookup_failed",
		}).Errorf("session lookup failed: %v", err)
		return userdomain.Identity{}, false, err
	}

	if string(active.Identity.ID) != claims.Subject {
		metrics.SessionLookupsTotal.WithLabelValues("invalid").Inc()
		return userdomain.Identity{}, false, nil
	}

	metrics.SessionLookupsTotal.WithLabelValues("active").Inc()
	return active.Identity, true, nil
}

// Close ends the session named by token. Unknown, closed and malformed tokens
// are ignored.
func (s *SessionService) Close(ctx context.Context, token domain.Token) error {
	if token == "" {
		return nil
	}

	claims, err := s.codec.ParseSignature(token)
	if err != nil {
		return nil
	}

	deleted, err := s.repo.Delete(ctx, domain.ID(claims.SessionID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"session_id": claims.SessionID,
			"action":     "session_close_failed",
		}).Errorf("close session failed: %v", err)
		return err
	}

	if deleted {
		metrics.SessionsClosed.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id":    claims.Subject,
			"session_id": claims.SessionID,
			"action":     "session_closed",
		}).Info("session closed")
	}
	return nil
}
