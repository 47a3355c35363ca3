package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hides the hashing primitive from the repositories.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(plain, digest string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcrypt returns a bcrypt-backed Hasher at the default cost.
func NewBcrypt() Hasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *bcryptHasher) Compare(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
