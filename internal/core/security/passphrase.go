// Package security holds the operational passphrase gate and the role
// permission matrix.
package security

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pdv/internal/core/apperror"
)

// PassphraseGate compares the text typed by an operator with a single shared
// shop passphrase before sensitive mutations (editing the catalog, deleting
// sales or clients, opening and closing the cash register).
//
// It is an operational speed-bump: every operator knows the same phrase and
// it identifies nobody. Role checks in the HTTP layer are the access control.
type PassphraseGate struct {
	hash []byte
}

// NewPassphraseGate builds a gate from a bcrypt hash. When hash is empty the
// plain passphrase is hashed instead, so that the secret never stays in memory
// in clear text.
func NewPassphraseGate(hash, plain string) (*PassphraseGate, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &PassphraseGate{hash: []byte(hash)}, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &PassphraseGate{hash: h}, nil
}

// Check returns CodeInvalidPassphrase unless entered matches.
func (g *PassphraseGate) Check(entered string) error {
	entered = strings.TrimSpace(entered)
	if entered == "" {
		return apperror.NewInvalidPassphrase()
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(entered)); err != nil {
		return apperror.NewInvalidPassphrase()
	}
	return nil
}
