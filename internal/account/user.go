package account

import (
	"errors"
	"regexp"
	"strings"

	"github.com/DhikraCh/resto-management/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

// Errors returned by the directory and the admin registry.
var (
	ErrInvalidEmail       = errors.New("email must be a @gmail.com address")
	ErrInvalidPassword    = errors.New("password must be non-empty and must not contain ':'")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPendingApproval    = errors.New("account pending approval")
	ErrNotApproved        = errors.New("account not approved")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@gmail\.com$`)

// ValidEmail reports whether email is an accepted login.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// User is an account. Password holds either the plain text or a bcrypt
// hash, depending on how the directory was configured when it was written.
type User struct {
	Email    string
	Password string
	Role     enum.UserRole
	Status   enum.UserStatus
}

func (u User) IsPending() bool  { return u.Status == enum.UserStatusPending }
func (u User) IsApproved() bool { return u.Status == enum.UserStatusApproved }

// RoleLabel is the display name of the role.
func (u User) RoleLabel() string {
	switch u.Role {
	case enum.UserRoleClient:
		return "Client"
	case enum.UserRoleLivreur:
		return "Livreur"
	case enum.UserRoleAdmin:
		return "Administrateur"
	}
	return string(u.Role)
}

func validPassword(p string) bool {
	return p != "" && !strings.ContainsAny(p, ":\n\r")
}

// isHash reports whether stored parses as a bcrypt hash. A plaintext
// password may itself start with "$2".
func isHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// checkPassword compares by bcrypt when the stored value is a hash and by
// plain equality otherwise.
func checkPassword(stored, given string) bool {
	if isHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

func hashPassword(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
