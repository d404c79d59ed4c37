package account

import (
	"fmt"
	"strings"
	"sync"

	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/sirupsen/logrus"
)

type adminEntry struct {
	email    string
	password string
}

// AdminRegistry is the older admins.txt list (email:password). Accounts in
// it are admins without going through approval.
type AdminRegistry struct {
	mu      sync.RWMutex
	path    string
	log     *logrus.Logger
	entries []adminEntry
}

func NewAdminRegistry(path string, log *logrus.Logger) (*AdminRegistry, error) {
	r := &AdminRegistry{path: path, log: log}

	lines, err := filestore.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}
	for _, line := range lines {
		parts := strings.Split(strings.TrimRight(line, "\r"), ":")
		if len(parts) != 2 {
			continue
		}
		r.entries = append(r.entries, adminEntry{email: parts[0], password: parts[1]})
	}
	return r, nil
}

func (r *AdminRegistry) Register(email, password string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if !validPassword(password) {
		return ErrInvalidPassword
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(email) >= 0 {
		return ErrEmailTaken
	}
	r.entries = append(r.entries, adminEntry{email: email, password: password})

	lines := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		lines = append(lines, e.email+":"+e.password)
	}
	if err := filestore.WriteLines(r.path, lines); err != nil {
		r.entries = r.entries[:len(r.entries)-1]
		return fmt.Errorf("save admins: %w", err)
	}
	r.log.WithField("email", email).Info("admin registered")
	return nil
}

func (r *AdminRegistry) Login(email, password string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.find(email)
	if i < 0 || !checkPassword(r.entries[i].password, password) {
		return ErrInvalidCredentials
	}
	return nil
}

func (r *AdminRegistry) Exists(email string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(email) >= 0
}

func (r *AdminRegistry) find(email string) int {
	for i, e := range r.entries {
		if e.email == email {
			return i
		}
	}
	return -1
}
