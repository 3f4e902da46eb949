package accounts

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type bcryptHasher struct {
	cost int
}

func NewBcryptHasher() Hasher {
	return &bcryptHasher{cost: 12}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}

func (h *bcryptHasher) Verify(plaintext, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	return err == nil
}
