package bcrypt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-bcrypt/bcrypt/bcrypt/radix64"
	crypthash "github.com/go-bcrypt/bcrypt/hash"
)

// vectors are the worked (password, cost, salt) -> hash string examples.
var vectors = []struct {
	password string
	cost     uint8
	salt     string
	hash     string
}{
	{
		password: "",
		cost:     6,
		salt:     "DCq7YPn5Rq63x1Lad4cll.",
		hash:     "$2a$06$DCq7YPn5Rq63x1Lad4cll.TV4S6ytwfsfvkgY8jIucDrjc8deX1s.",
	},
	{
		password: "a",
		cost:     8,
		salt:     "cfcvVd2aQ8CMvoMpP2EBfe",
		hash:     "$2a$08$cfcvVd2aQ8CMvoMpP2EBfeodLEkkFJ9umNEfPD18.hUF62qqlC/V.",
	},
	{
		password: "abc",
		cost:     10,
		salt:     "WvvTPHKwdBJ3uk0Z37EMR.",
		hash:     "$2a$10$WvvTPHKwdBJ3uk0Z37EMR.hLA2W6N9AEBhEgrAOljy2Ae5MtaSIUi",
	},
	{
		password: "abcdefghijklmnopqrstuvwxyz",
		cost:     12,
		salt:     "D4G5f18o7aMMfwasBL7Gpu",
		hash:     "$2a$12$D4G5f18o7aMMfwasBL7GpuQWuP3pkrZrOAnqP.bmezbMng.QwJ/pG",
	},
	{
		password: "~!@#$%^&*()      ~!@#$%^&*()PNBFRD",
		cost:     10,
		salt:     "LgfYWkbzEvQ4JakH7rOvHe",
		hash:     "$2a$10$LgfYWkbzEvQ4JakH7rOvHe0y8pHKF9OaFgwUZ2q7W2FFZmZzJYlfS",
	},
}

func TestKeyVectors(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.hash, func(t *testing.T) {
			key, err := Key(v.password, []byte(v.salt), v.cost, &CompatibilityOptions{Prefix: Prefix2a})
			if err != nil {
				t.Fatalf("Key() = _, %v; want nil", err)
			}
			var sum [encodedHashLength]byte
			radix64.Encode(sum[:], key)
			want := v.hash[len(v.hash)-encodedHashLength:]
			if string(sum[:]) != want {
				t.Errorf("Key() encoded = %q; want %q", sum, want)
			}
		})
	}
}

func TestCheckPasswordVectors(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.hash, func(t *testing.T) {
			ok, err := CheckPassword(v.password, v.hash)
			if err != nil {
				t.Fatalf("CheckPassword() = _, %v; want nil", err)
			}
			if !ok {
				t.Errorf("CheckPassword(%q, %q) = false; want true", v.password, v.hash)
			}
			if ok, err := CheckPassword(v.password+"x", v.hash); err != nil || ok {
				t.Errorf("CheckPassword(%q, %q) = %v, %v; want false, nil", v.password+"x", v.hash, ok, err)
			}
		})
	}
}

func TestCheckPasswordKnownHash(t *testing.T) {
	ok, err := CheckPassword("correctbatteryhorsestapler", "$2a$12$mACnM5lzNigHMaf7O1py1O3vlf6.BA8k8x3IoJ.Tq3IB/2e7g61Km")
	if err != nil {
		t.Fatalf("CheckPassword() = _, %v; want nil", err)
	}
	if !ok {
		t.Error("CheckPassword() = false; want true")
	}
}

func TestCheckPasswordLegacyPrefix(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() = _, %v; want nil", err)
	}
	s := scheme{
		HashPrefix: Prefix2,
		Cost:       hashCost(MinCost),
		Salt:       make([]byte, encodedSaltLength),
	}
	radix64.Encode(s.Salt, salt)
	key, err := Key("password", s.Salt, MinCost, &CompatibilityOptions{Prefix: Prefix2})
	if err != nil {
		t.Fatalf("Key() = _, %v; want nil", err)
	}
	radix64.Encode(s.Sum[:], key)
	legacy, err := crypthash.Marshal(s)
	if err != nil {
		t.Fatalf("hash.Marshal() = _, %v; want nil", err)
	}
	if !strings.HasPrefix(legacy, Prefix2) {
		t.Fatalf("Marshal() = %q; want $2$ prefix", legacy)
	}
	ok, err := CheckPassword("password", legacy)
	if err != nil {
		t.Fatalf("CheckPassword(legacy) = _, %v; want nil", err)
	}
	if !ok {
		t.Error("CheckPassword(legacy $2$ hash) = false; want true")
	}
	if ok, err := CheckPassword("wrong", legacy); err != nil || ok {
		t.Errorf("CheckPassword(wrong, legacy) = %v, %v; want false, nil", ok, err)
	}
}

func TestNewHashRoundTrip(t *testing.T) {
	for _, cost := range []uint8{MinCost, 10} {
		hash, err := NewHash("a correct password", cost)
		if err != nil {
			t.Fatalf("NewHash() = _, %v; want nil", err)
		}
		ok, err := CheckPassword("a correct password", hash)
		if err != nil {
			t.Fatalf("CheckPassword() = _, %v; want nil", err)
		}
		if !ok {
			t.Errorf("CheckPassword() = false for NewHash(cost=%d) output; want true", cost)
		}
	}
}

func TestHashPasswordFreshSalts(t *testing.T) {
	hash1, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() = _, %v; want nil", err)
	}
	hash2, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() = _, %v; want nil", err)
	}
	if hash1 == hash2 {
		t.Error("HashPassword() produced identical hashes from independent salts")
	}
}

func TestBoundaryLengthsDiffer(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() = _, %v; want nil", err)
	}
	d55, _ := Digest(strings.Repeat("x", 55), salt, MinCost)
	d56, _ := Digest(strings.Repeat("x", 56), salt, MinCost)
	d57, _ := Digest(strings.Repeat("x", 57), salt, MinCost)
	if d55 == d56 || d56 == d57 || d55 == d57 {
		t.Error("Digest() did not differ for 55/56/57-byte passwords")
	}
}

func TestBoundaryLengthsEqual(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() = _, %v; want nil", err)
	}
	base := strings.Repeat("y", 71)
	d71, err := Digest(base, salt, MinCost)
	if err != nil {
		t.Fatalf("Digest() = _, %v; want nil", err)
	}
	d72, err := Digest(base+"1", salt, MinCost)
	if err != nil {
		t.Fatalf("Digest() = _, %v; want nil", err)
	}
	d73, err := Digest(base+"12", salt, MinCost)
	if err != nil {
		t.Fatalf("Digest() = _, %v; want nil", err)
	}
	if d71 != d72 || d72 != d73 {
		t.Error("Digest() differed for 71/72/73-byte passwords sharing a 71-byte prefix")
	}
}

func TestCostBounds(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() = _, %v; want nil", err)
	}
	if _, err := Digest("password", salt, MinCost); err != nil {
		t.Errorf("Digest(cost=%d) = _, %v; want nil", MinCost, err)
	}
	if _, err := Digest("password", salt, 3); err == nil {
		t.Error("Digest(cost=3) = _, nil; want CostOutOfRangeError")
	}
	if _, err := Digest("password", salt, 32); err == nil {
		t.Error("Digest(cost=32) = _, nil; want CostOutOfRangeError")
	}
}

func TestEmptyPasswordHashesAndVerifies(t *testing.T) {
	hash, err := NewHash("", MinCost)
	if err != nil {
		t.Fatalf("NewHash(\"\") = _, %v; want nil", err)
	}
	ok, err := CheckPassword("", hash)
	if err != nil {
		t.Fatalf("CheckPassword() = _, %v; want nil", err)
	}
	if !ok {
		t.Error("CheckPassword(\"\", NewHash(\"\")) = false; want true")
	}
}

func TestSaltUniqueness(t *testing.T) {
	s1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() = _, %v; want nil", err)
	}
	s2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() = _, %v; want nil", err)
	}
	if bytes.Equal(s1, s2) {
		t.Error("two consecutive GenerateSalt() calls produced identical salts")
	}
}

func TestParamsRoundTrip(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.hash, func(t *testing.T) {
			salt, cost, opts, err := Params(v.hash)
			if err != nil {
				t.Fatalf("Params() = _, _, _, %v; want nil", err)
			}
			if string(salt) != v.salt {
				t.Errorf("Params() salt = %q; want %q", salt, v.salt)
			}
			if cost != v.cost {
				t.Errorf("Params() cost = %d; want %d", cost, v.cost)
			}
			if opts.Prefix != Prefix2a {
				t.Errorf("Params() opts.Prefix = %q; want %q", opts.Prefix, Prefix2a)
			}
		})
	}
}

func TestNewHashScheme(t *testing.T) {
	tests := []struct {
		password string
		cost     uint8
		scheme   scheme
	}{
		{
			password: "password",
			cost:     DefaultCost,
			scheme: scheme{
				HashPrefix: Prefix2a,
				Cost:       hashCost(DefaultCost),
			},
		},
		{
			password: "password",
			cost:     10,
			scheme: scheme{
				HashPrefix: Prefix2a,
				Cost:       hashCost(10),
			},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("password=%s;cost=%d", test.password, test.cost), func(t *testing.T) {
			hash, err := NewHash(test.password, test.cost)
			if err != nil {
				t.Fatalf("NewHash() = _, %v; want nil", err)
			}
			if err := Check(hash, test.password); err != nil {
				t.Errorf("Check() = %v; want nil", err)
			}
			var schema scheme
			if err := crypthash.Unmarshal(hash, &schema); err != nil {
				t.Fatalf("crypthash.Unmarshal() = %v; want nil", err)
			}
			if diff := cmp.Diff(test.scheme, schema, cmp.Comparer(func(x, y scheme) bool {
				return x.HashPrefix == y.HashPrefix && x.Cost == y.Cost
			})); diff != "" {
				t.Errorf("crypthash.Unmarshal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseShouldFail(t *testing.T) {
	tests := []string{
		"",
		"not a hash",
		"$2x$10$" + strings.Repeat("a", 53),
		"$2a$99$" + strings.Repeat("a", 53),
		fmt.Sprintf("$2a$10$%s", strings.Repeat("a", 50)),
	}
	for _, hash := range tests {
		t.Run(hash, func(t *testing.T) {
			if _, _, _, err := Params(hash); err == nil {
				t.Errorf("Params(%q) = _, _, _, nil; want error", hash)
			}
			if _, err := CheckPassword("password", hash); err == nil {
				t.Errorf("CheckPassword(%q) = _, nil; want error", hash)
			}
		})
	}
}
