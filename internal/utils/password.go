package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a customer's password with bcrypt. A cost outside
// bcrypt's supported range is replaced by the library default rather than
// erroring, so a misconfigured BCRYPT_COST degrades to a safe hash instead
// of blocking registration.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant-time inside bcrypt; callers treat any
// mismatch the same as an unknown email to keep login errors uniform.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
