package account

import (
	"fmt"
	"strings"
	"sync"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/sirupsen/logrus"
)

// Directory is the users.txt account list (email:password:role:status).
// The whole file is rewritten after every change.
type Directory struct {
	mu    sync.RWMutex
	path  string
	hash  bool
	log   *logrus.Logger
	users []User
}

// Option configures a Directory.
type Option func(*Directory)

// WithHashedPasswords stores new passwords as bcrypt hashes.
func WithHashedPasswords(on bool) Option {
	return func(d *Directory) { d.hash = on }
}

// NewDirectory loads path. A missing file gives an empty directory.
func NewDirectory(path string, log *logrus.Logger, opts ...Option) (*Directory, error) {
	d := &Directory{path: path, log: log}
	for _, opt := range opts {
		opt(d)
	}

	lines, err := filestore.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i, line := range lines {
		u, ok := parseUser(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				log.WithField("path", path).Warnf("line %d: skipped user record", i+1)
			}
			continue
		}
		d.users = append(d.users, u)
	}
	log.WithFields(logrus.Fields{"path": path, "users": len(d.users)}).Debug("users loaded")
	return d, nil
}

func parseUser(line string) (User, bool) {
	parts := strings.Split(strings.TrimRight(line, "\r"), ":")
	if len(parts) != 4 {
		return User{}, false
	}
	role, ok := enum.ParseUserRole(parts[2])
	if !ok {
		return User{}, false
	}
	status, ok := enum.ParseUserStatus(parts[3])
	if !ok {
		return User{}, false
	}
	return User{Email: parts[0], Password: parts[1], Role: role, Status: status}, true
}

// Register adds an account. Clients are approved at once; couriers and
// admins wait for an admin.
func (d *Directory) Register(email, password string, role enum.UserRole) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if !validPassword(password) {
		return ErrInvalidPassword
	}
	if _, ok := enum.ParseUserRole(string(role)); !ok {
		return ErrInvalidRole
	}

	stored := password
	if d.hash {
		h, err := hashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		stored = h
	}

	status := enum.UserStatusPending
	if role == enum.UserRoleClient {
		status = enum.UserStatusApproved
	}
	u := User{Email: email, Password: stored, Role: role, Status: status}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexOf(email) >= 0 {
		return ErrEmailTaken
	}
	d.users = append(d.users, u)
	if err := d.save(); err != nil {
		d.users = d.users[:len(d.users)-1]
		return err
	}
	d.log.WithFields(logrus.Fields{"email": email, "role": role, "status": status}).Info("user registered")
	return nil
}

// Login checks the credentials and the approval state.
func (d *Directory) Login(email, password string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexOf(email)
	if i < 0 || !checkPassword(d.users[i].Password, password) {
		return User{}, ErrInvalidCredentials
	}
	u := d.users[i]
	switch u.Status {
	case enum.UserStatusPending:
		return User{}, ErrPendingApproval
	case enum.UserStatusRejected:
		return User{}, ErrNotApproved
	}
	return u, nil
}

func (d *Directory) Approve(email string) error {
	return d.setStatus(email, enum.UserStatusApproved)
}

func (d *Directory) Reject(email string) error {
	return d.setStatus(email, enum.UserStatusRejected)
}

func (d *Directory) setStatus(email string, status enum.UserStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(email)
	if i < 0 {
		return ErrUserNotFound
	}
	prev := d.users[i].Status
	d.users[i].Status = status
	if err := d.save(); err != nil {
		d.users[i].Status = prev
		return err
	}
	d.log.WithFields(logrus.Fields{"email": email, "status": status}).Info("user status changed")
	return nil
}

// Pending returns the accounts waiting for approval.
func (d *Directory) Pending() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []User
	for _, u := range d.users {
		if u.IsPending() {
			out = append(out, u)
		}
	}
	return out
}

func (d *Directory) All() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]User(nil), d.users...)
}

func (d *Directory) Get(email string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.indexOf(email); i >= 0 {
		return d.users[i], true
	}
	return User{}, false
}

func (d *Directory) Exists(email string) bool {
	_, ok := d.Get(email)
	return ok
}

func (d *Directory) indexOf(email string) int {
	for i, u := range d.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

// save must be called with mu held.
func (d *Directory) save() error {
	lines := make([]string, 0, len(d.users))
	for _, u := range d.users {
		lines = append(lines, strings.Join([]string{u.Email, u.Password, string(u.Role), string(u.Status)}, ":"))
	}
	if err := filestore.WriteLines(d.path, lines); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
