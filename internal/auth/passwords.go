package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier hashes and checks password credentials.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type bcryptVerifier struct {
	cost int
}

// NewBcryptVerifier returns a bcrypt-backed CredentialVerifier at the
// default cost.
func NewBcryptVerifier() CredentialVerifier {
	return &bcryptVerifier{cost: bcrypt.DefaultCost}
}

func (v *bcryptVerifier) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), v.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (v *bcryptVerifier) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
