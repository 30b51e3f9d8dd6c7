// Package auth manages the single guest identity of the booking service.
// The logged-in user is persisted like any other value so every process
// sharing the storage sees the same session.
package auth

import (
	"context"
	"log/slog"

	"github.com/iliyamo/studyspot-booking/internal/clock"
	"github.com/iliyamo/studyspot-booking/internal/model"
	"github.com/iliyamo/studyspot-booking/internal/store"
	"github.com/iliyamo/studyspot-booking/internal/utils"
)

// StorageKey is the key the current user is persisted under.
const StorageKey = "studyspot_user"

// Guest user fields. Every login yields this identity.
const (
	GuestID     = "guest-user-permanent"
	GuestName   = "Guest User"
	GuestEmail  = "guest@studyspot.ph"
	GuestAvatar = "👤"
	GuestType   = "guest"
)

type Service struct {
	store  *store.Store[*model.User]
	clock  clock.Clock
	secret string
	ttlMin int
	logger *slog.Logger
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithTokens enables IssueToken and ParseToken with an HS256 secret and an
// access token lifetime in minutes.
func WithTokens(secret string, ttlMin int) Option {
	return func(s *Service) {
		s.secret = secret
		s.ttlMin = ttlMin
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(st *store.Store[*model.User], opts ...Option) *Service {
	s := &Service{
		store:  st,
		clock:  clock.NewSystem(),
		ttlMin: 15,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login stores a fresh guest user and returns it.
func (s *Service) Login(ctx context.Context) model.User {
	u := model.User{
		ID:        GuestID,
		Name:      GuestName,
		Email:     GuestEmail,
		Avatar:    GuestAvatar,
		Type:      GuestType,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.store.Set(ctx, &u)
	s.logger.Info("auth: guest logged in", "user_id", u.ID)
	return u
}

// Logout clears the stored user. It does nothing when nobody is logged in.
func (s *Service) Logout(ctx context.Context) {
	if !s.IsAuthenticated() {
		return
	}
	s.store.Set(ctx, nil)
	s.logger.Info("auth: logged out")
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Service) CurrentUser() *model.User {
	u := s.store.Get()
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (s *Service) IsAuthenticated() bool { return s.store.Get() != nil }

// IssueToken signs an access token for u.
func (s *Service) IssueToken(u model.User) (utils.AccessToken, error) {
	return utils.NewAccessToken(s.secret, utils.Claims{
		UserID:   u.ID,
		UserName: u.Name,
		UserType: u.Type,
	}, s.ttlMin, s.clock.Now())
}

// ParseToken verifies an access token issued by IssueToken.
func (s *Service) ParseToken(raw string) (utils.Claims, error) {
	return utils.ParseAccessToken(s.secret, raw)
}
