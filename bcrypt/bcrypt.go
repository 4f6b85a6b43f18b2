// Package bcrypt implements the bcrypt hashing algorithm for crypt(3):
// the EksBlowfish key schedule, the 64-round ECB digest, and the OpenBSD
// radix-64 framed hash string.
package bcrypt

import (
	"crypto/subtle"
	"strconv"

	crypt "github.com/go-bcrypt/bcrypt"
	"github.com/go-bcrypt/bcrypt/bcrypt/eksblowfish"
	"github.com/go-bcrypt/bcrypt/bcrypt/radix64"
	crypthash "github.com/go-bcrypt/bcrypt/hash"
	"github.com/go-bcrypt/bcrypt/internal/cryptoutil"
)

// SaltLength is the length in bytes of a raw, undecoded salt.
const SaltLength = eksblowfish.SaltLength

const (
	encodedSaltLength = 22 // radix-64 characters encoding a 16-byte salt
	digestLength      = 24 // bytes produced by the 64-round ECB digest
	truncatedLength   = 23 // digest bytes actually stored in a hash string
	encodedHashLength = 31 // radix-64 characters encoding truncatedLength bytes
	maxPasswordBytes  = 71 // password bytes kept before the trailing zero
)

const (
	MinCost     = eksblowfish.MinCost
	MaxCost     = eksblowfish.MaxCost
	DefaultCost = 12 // satisfies the spec's "at least 11" default lower bound

	// minRecommendedCost is the lower bound DefaultCost satisfies.
	// HashPassword always uses DefaultCost; it does not adjust or clamp
	// the cost.
	minRecommendedCost = 11
)

const (
	Prefix2  = "$2$"  // the original bcrypt specification
	Prefix2a = "$2a$" // UTF-8 passwords with a mandatory null terminator
)

// CostOutOfRangeError reports a cost outside [MinCost, MaxCost].
type CostOutOfRangeError int

func (e CostOutOfRangeError) Error() string {
	return "cost out of range: " + strconv.Itoa(int(e))
}

// SaltLengthInvalidError reports a salt whose length does not match what
// the caller was expected to supply.
type SaltLengthInvalidError int

func (e SaltLengthInvalidError) Error() string {
	return "invalid salt length " + strconv.Itoa(int(e))
}

// UnsupportedPrefixError reports a hash string version tag other than
// $2$ or $2a$.
type UnsupportedPrefixError string

func (e UnsupportedPrefixError) Error() string {
	return "unsupported prefix " + strconv.Quote(string(e))
}

// CompatibilityOptions selects the hash string version used to derive or
// verify a key. The zero value behaves like Prefix2a.
type CompatibilityOptions struct {
	Prefix string
}

type hashPrefix string

func (h *hashPrefix) UnmarshalText(text []byte) error {
	switch s := hashPrefix(text); s {
	case Prefix2, Prefix2a:
		*h = s
		return nil
	default:
		return UnsupportedPrefixError(s)
	}
}

type hashCost uint8

func (c hashCost) MarshalText() ([]byte, error) {
	b := make([]byte, 0, 2)
	if c < 10 {
		b = append(b, '0')
	}
	return strconv.AppendUint(b, uint64(c), 10), nil
}

func (c *hashCost) UnmarshalText(text []byte) error {
	n, err := strconv.ParseUint(string(text), 10, 8)
	if err != nil {
		return err
	}
	if n < MinCost || n > MaxCost {
		return CostOutOfRangeError(n)
	}
	*c = hashCost(n)
	return nil
}

type scheme struct {
	HashPrefix hashPrefix
	Cost       hashCost `hash:"length:2"`
	Salt       []byte   `hash:"length:22,inline"`
	Sum        [encodedHashLength]byte
}

// GenerateSalt returns SaltLength cryptographically random bytes suitable
// for use as a bcrypt salt.
func GenerateSalt() ([]byte, error) {
	return cryptoutil.Rand(SaltLength)
}

// passwordKey applies the password-to-key normalisation: truncate to
// maxPasswordBytes and append one trailing zero byte.
func passwordKey(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	key := make([]byte, len(b)+1)
	copy(key, b)
	return key
}

// Digest is the raw bcrypt digest primitive: it derives the EksBlowfish
// key schedule for password under salt and cost, and returns the
// resulting 24-byte digest. salt must be exactly SaltLength raw bytes.
//
// Digest is pure and deterministic: identical inputs always produce the
// identical digest.
func Digest(password string, salt []byte, cost uint8) ([digestLength]byte, error) {
	if cost < MinCost || cost > MaxCost {
		return [digestLength]byte{}, CostOutOfRangeError(cost)
	}
	if len(salt) != SaltLength {
		return [digestLength]byte{}, SaltLengthInvalidError(len(salt))
	}
	return eksblowfish.Digest(cost, salt, passwordKey(password))
}

// Key derives the bcrypt key for password under an encoded (radix-64)
// salt, cost and compatibility options, and returns the truncated
// 23-byte digest that fills a hash string's hash31 field.
//
// The opts parameter is optional. If nil, Prefix2a behaviour is used.
func Key(password string, encodedSalt []byte, cost uint8, opts *CompatibilityOptions) ([]byte, error) {
	if opts == nil || opts.Prefix == "" {
		opts = &CompatibilityOptions{Prefix: Prefix2a}
	}
	switch opts.Prefix {
	case Prefix2, Prefix2a:
	default:
		return nil, UnsupportedPrefixError(opts.Prefix)
	}
	if cost < MinCost || cost > MaxCost {
		return nil, CostOutOfRangeError(cost)
	}
	if n := len(encodedSalt); n != encodedSaltLength {
		return nil, SaltLengthInvalidError(n)
	}
	salt := make([]byte, SaltLength)
	if _, err := radix64.Decode(salt, encodedSalt); err != nil {
		return nil, err
	}
	key := passwordKey(password)
	if opts.Prefix == Prefix2 {
		// BUG: the original "$2$" specification never appends a null
		// terminator to the key. Preserved for legacy verification only.
		key = key[:len(key)-1]
	}
	digest, err := eksblowfish.Digest(cost, salt, key)
	if err != nil {
		return nil, err
	}
	return digest[:truncatedLength], nil
}

// NewHash returns the crypt(3) bcrypt hash string of password at the
// given cost, using a freshly generated salt.
func NewHash(password string, cost uint8) (string, error) {
	if cost < MinCost || cost > MaxCost {
		return "", CostOutOfRangeError(cost)
	}
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	s := scheme{
		HashPrefix: Prefix2a,
		Cost:       hashCost(cost),
		Salt:       make([]byte, encodedSaltLength),
	}
	radix64.Encode(s.Salt, salt)
	key, err := Key(password, s.Salt, cost, &CompatibilityOptions{Prefix: string(s.HashPrefix)})
	if err != nil {
		return "", err
	}
	radix64.Encode(s.Sum[:], key)
	return crypthash.Marshal(s)
}

// HashPassword returns the crypt(3) bcrypt hash string of password at
// DefaultCost, which is not below minRecommendedCost.
func HashPassword(password string) (string, error) {
	return NewHash(password, DefaultCost)
}

// Params returns the encoded salt, cost and compatibility options parsed
// out of a crypt(3) bcrypt hash string.
func Params(hash string) (encodedSalt []byte, cost uint8, opts *CompatibilityOptions, err error) {
	var s scheme
	if err = crypthash.Unmarshal(hash, &s); err != nil {
		return
	}
	return s.Salt, uint8(s.Cost), &CompatibilityOptions{Prefix: string(s.HashPrefix)}, nil
}

// CheckPassword parses expectedHash, recomputes the digest for password
// under the parsed salt and cost, and reports whether they match.
//
// Comparison is performed on the parsed (cost, salt, digest) tuple
// rather than on the reformatted hash string, so that a legacy "$2$"
// hash — which this package always re-emits as "$2a$" — still verifies
// correctly. The byte comparison itself is constant-time.
func CheckPassword(password, expectedHash string) (bool, error) {
	var s scheme
	if err := crypthash.Unmarshal(expectedHash, &s); err != nil {
		return false, err
	}
	key, err := Key(password, s.Salt, uint8(s.Cost), &CompatibilityOptions{Prefix: string(s.HashPrefix)})
	if err != nil {
		return false, err
	}
	var sum [encodedHashLength]byte
	radix64.Encode(sum[:], key)
	return subtle.ConstantTimeCompare(sum[:], s.Sum[:]) == 1, nil
}

// CheckDigest is the raw form of CheckPassword: it compares the 24-byte
// digest produced for password under salt and cost against an expected
// digest, in constant time.
func CheckDigest(password string, salt []byte, expected [digestLength]byte, cost uint8) (bool, error) {
	got, err := Digest(password, salt, cost)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got[:], expected[:]) == 1, nil
}

// Check compares the given crypt(3) bcrypt hash with a new hash derived
// from password. It returns nil on success, or an error on failure,
// matching the signature crypt.RegisterHash expects.
func Check(hash, password string) error {
	ok, err := CheckPassword(password, hash)
	if err != nil {
		return err
	}
	if !ok {
		return crypt.ErrPasswordMismatch
	}
	return nil
}

func init() {
	crypt.RegisterHash(Prefix2, Check)
	crypt.RegisterHash(Prefix2a, Check)
}
