package session

import (
	"testing"
	"time"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/stretchr/testify/assert"
)

func TestSessionRoles(t *testing.T) {
	s := New()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.CurrentEmail())

	s.Login(account.User{Email: "liv@gmail.com", Role: enum.UserRoleLivreur, Status: enum.UserStatusApproved})
	assert.True(t, s.IsCourier())
	assert.False(t, s.IsClient())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "liv@gmail.com", s.CurrentEmail())

	s.LoginAsGuest()
	assert.True(t, s.IsGuest())
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.CurrentEmail())

	s.Logout()
	assert.False(t, s.IsGuest())
}

func TestHistoryClearedOnIdentityChange(t *testing.T) {
	s := New()
	s.Login(account.User{Email: "a@gmail.com", Role: enum.UserRoleClient})
	s.AddOrderToHistory(order.New(1000, time.Now()))
	s.AddOrderToHistory(order.New(1001, time.Now()))
	assert.Len(t, s.History(), 2)

	s.Login(account.User{Email: "b@gmail.com", Role: enum.UserRoleClient})
	assert.Empty(t, s.History())

	s.AddOrderToHistory(order.New(1002, time.Now()))
	s.Logout()
	assert.Empty(t, s.History())
}
