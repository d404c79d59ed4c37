package service

import (
	"fmt"
	"time"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/auth"
	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/session"
	"github.com/sirupsen/logrus"
)

// AccountService ties the account stores to the session and hands out
// session tokens.
type AccountService struct {
	users   UserDirectory
	admins  AdminRegistry
	session *session.Session
	secret  string
	ttl     time.Duration
	log     *logrus.Logger
}

func NewAccountService(users UserDirectory, admins AdminRegistry, sess *session.Session, secret string, ttl time.Duration, log *logrus.Logger) *AccountService {
	return &AccountService{users: users, admins: admins, session: sess, secret: secret, ttl: ttl, log: log}
}

func (s *AccountService) Register(email, password string, role enum.UserRole) error {
	if err := s.users.Register(email, password, role); err != nil {
		return fmt.Errorf("register %s: %w", email, err)
	}
	return nil
}

// Login opens a session and returns its token. Every refusal is reported
// as ErrLoginFailed; the reason only goes to the log.
func (s *AccountService) Login(email, password string) (string, account.User, error) {
	u, err := s.users.Login(email, password)
	if err != nil {
		if s.admins != nil && s.admins.Login(email, password) == nil {
			u, err = legacyAdmin(email), nil
		}
	}
	if err != nil {
		s.log.WithError(err).WithField("email", email).Warn("login refused")
		return "", account.User{}, ErrLoginFailed
	}

	token, err := auth.GenerateToken(s.secret, u.Email, string(u.Role), s.ttl)
	if err != nil {
		return "", account.User{}, fmt.Errorf("sign session token: %w", err)
	}
	s.session.Login(u)
	s.log.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("logged in")
	return token, u, nil
}

func (s *AccountService) LoginAsGuest() {
	s.session.LoginAsGuest()
}

func (s *AccountService) Logout() {
	s.session.Logout()
}

// Resume restores the session of a token, as long as the account is still
// approved.
func (s *AccountService) Resume(token string) (account.User, error) {
	if token == "" {
		return account.User{}, ErrNotLoggedIn
	}
	claims, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		return account.User{}, fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}

	u, ok := s.users.Get(claims.Email)
	switch {
	case ok && u.IsApproved():
	case !ok && claims.Role == string(enum.UserRoleAdmin) && s.admins != nil && s.admins.Exists(claims.Email):
		u = legacyAdmin(claims.Email)
	case ok:
		return account.User{}, fmt.Errorf("%w: %v", ErrNotLoggedIn, account.ErrNotApproved)
	default:
		return account.User{}, fmt.Errorf("%w: account no longer exists", ErrNotLoggedIn)
	}

	s.session.Login(u)
	return u, nil
}

func legacyAdmin(email string) account.User {
	return account.User{Email: email, Role: enum.UserRoleAdmin, Status: enum.UserStatusApproved}
}
