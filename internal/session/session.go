package session

import (
	"sync"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/order"
)

// Session tracks who is using the application. With no user it is either
// logged out or a guest.
type Session struct {
	mu      sync.RWMutex
	user    *account.User
	guest   bool
	history []*order.Order
}

func New() *Session { return &Session{} }

// Login replaces the current identity and clears the history cache.
func (s *Session) Login(u account.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.guest = false
	s.history = nil
}

// LoginAsGuest drops any user. Guests may order but keep no history file.
func (s *Session) LoginAsGuest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.guest = true
	s.history = nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.guest = false
	s.history = nil
}

func (s *Session) Current() (account.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return account.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsLoggedIn() bool {
	_, ok := s.Current()
	return ok
}

func (s *Session) IsGuest() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guest
}

func (s *Session) IsClient() bool  { return s.hasRole(enum.UserRoleClient) }
func (s *Session) IsAdmin() bool   { return s.hasRole(enum.UserRoleAdmin) }
func (s *Session) IsCourier() bool { return s.hasRole(enum.UserRoleLivreur) }

func (s *Session) hasRole(r enum.UserRole) bool {
	u, ok := s.Current()
	return ok && u.Role == r
}

// CurrentEmail is empty for guests and logged out sessions.
func (s *Session) CurrentEmail() string {
	u, _ := s.Current()
	return u.Email
}

func (s *Session) AddOrderToHistory(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, o)
}

func (s *Session) History() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*order.Order(nil), s.history...)
}
