package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAccount(t *testing.T) {
	a := &Account{Username: "user", FirstName: "First", LastName: "Last", Role: "User"}
	longName := "long_name_that_exceeds_24_characters_should_not_be_allowed"

	tests := []struct {
		username, firstName, lastName, role string
		wantErr                             error
		wantAcc                             *Account
	}{
		{wantErr: ErrInvalidUsername},
		{username: longName, wantErr: ErrInvalidUsername},
		{username: "user name with space", wantErr: ErrInvalidUsername},
		{username: "user_name_with_@", wantErr: ErrInvalidUsername},
		{username: "user", wantErr: ErrMissingName},
		{username: "user", firstName: "First", wantErr: ErrMissingName},
		{username: "user", firstName: "First", lastName: "Last", wantErr: ErrMissingRole},
		{username: "user", firstName: "First", lastName: "Last", role: "User", wantAcc: a},
	}

	for _, tt := range tests {
		acc, err := NewAccount(tt.username, tt.firstName, tt.lastName, tt.role)
		assert.Equal(t, tt.wantErr, err)
		assert.Equal(t, tt.wantAcc, acc)
	}
}

func TestHasherVerifiesItsOwnHash(t *testing.T) {
	h := NewBcryptHasher()
	hash, err := h.Hash("password")

	assert.Nil(t, err)
	assert.True(t, h.Verify("password", hash))
	assert.False(t, h.Verify("wrong password", hash))
}
