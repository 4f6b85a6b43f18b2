// Package cryptoutil holds small CSPRNG helpers shared by the hashing packages.
package cryptoutil

import "crypto/rand"

// Rand returns n cryptographically secure random bytes, or the error
// crypto/rand.Read reported while trying to produce them.
func Rand(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
