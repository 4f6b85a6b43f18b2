package eksblowfish

import (
	"bytes"
	"testing"
)

func TestExpandKeyInvalidLengths(t *testing.T) {
	st := NewState()
	if err := ExpandKey(st, make([]byte, 15), []byte{1}); err == nil {
		t.Error("ExpandKey(15-byte salt) = nil; want error")
	}
	if err := ExpandKey(st, nil, nil); err == nil {
		t.Error("ExpandKey(empty key) = nil; want error")
	}
	if err := ExpandKey(st, nil, make([]byte, 73)); err == nil {
		t.Error("ExpandKey(73-byte key) = nil; want error")
	}
}

func TestEksBlowfishSetupInvalidCost(t *testing.T) {
	salt := make([]byte, SaltLength)
	if _, err := EksBlowfishSetup(3, salt, []byte{0}); err == nil {
		t.Error("EksBlowfishSetup(cost=3) = _, nil; want error")
	}
	if _, err := EksBlowfishSetup(32, salt, []byte{0}); err == nil {
		t.Error("EksBlowfishSetup(cost=32) = _, nil; want error")
	}
}

func TestEksBlowfishSetupDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x41}, SaltLength)
	key := []byte("password\x00")
	s1, err := EksBlowfishSetup(4, salt, key)
	if err != nil {
		t.Fatalf("EksBlowfishSetup: %v", err)
	}
	s2, err := EksBlowfishSetup(4, salt, key)
	if err != nil {
		t.Fatalf("EksBlowfishSetup: %v", err)
	}
	if *s1 != *s2 {
		t.Error("EksBlowfishSetup is not deterministic for identical inputs")
	}
}

func TestEksBlowfishSetupSaltSensitivity(t *testing.T) {
	key := []byte("password\x00")
	salt1 := bytes.Repeat([]byte{0x41}, SaltLength)
	salt2 := bytes.Repeat([]byte{0x42}, SaltLength)
	s1, err := EksBlowfishSetup(4, salt1, key)
	if err != nil {
		t.Fatalf("EksBlowfishSetup: %v", err)
	}
	s2, err := EksBlowfishSetup(4, salt2, key)
	if err != nil {
		t.Fatalf("EksBlowfishSetup: %v", err)
	}
	if *s1 == *s2 {
		t.Error("EksBlowfishSetup produced identical states for different salts")
	}
}

func TestDigestLength(t *testing.T) {
	salt := bytes.Repeat([]byte{0}, SaltLength)
	d, err := Digest(4, salt, []byte{0})
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if len(d) != 24 {
		t.Fatalf("len(Digest()) = %d; want 24", len(d))
	}
}
