package dao

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordEncoder turns plain passwords into their stored form.
type PasswordEncoder interface {
	Encode(plain string) (string, error)
	Matches(encoded, plain string) bool
	// Deterministic encoders produce the same output for the same input, so
	// the encoded password can be part of a lookup query.
	Deterministic() bool
}

// Base64Encoder stores passwords base64 encoded. It is not a hash and only
// exists for compatibility with data written by earlier clients.
type Base64Encoder struct{}

func (Base64Encoder) Encode(plain string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(plain)), nil
}

func (e Base64Encoder) Matches(encoded, plain string) bool {
	enc, _ := e.Encode(plain)
	return enc == encoded
}

func (Base64Encoder) Deterministic() bool { return true }

// BcryptEncoder stores bcrypt hashes.
type BcryptEncoder struct {
	Cost int
}

func (e BcryptEncoder) Encode(plain string) (string, error) {
	cost := e.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptEncoder) Matches(encoded, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
}

func (BcryptEncoder) Deterministic() bool { return false }

// NewPasswordEncoder returns the encoder named by PASSWORD_ENCODING.
func NewPasswordEncoder(name string) (PasswordEncoder, error) {
	switch name {
	case "", "base64":
		return Base64Encoder{}, nil
	case "bcrypt":
		return BcryptEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown password encoding %q", name)
	}
}
