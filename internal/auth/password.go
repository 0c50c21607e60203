package auth

import (
	"golang.org/x/crypto/bcrypt"
)

type Hasher interface {
	Hash(pass string) (string, error)
	Verify(hash, pass string) error
}

type Bcrypt struct {
	Cost int
}

func (v *Bcrypt) Hash(pass string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (v *Bcrypt) Verify(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}
