package eksblowfish

import (
	"strconv"
)

// SaltLength is the only salt length ExpandKey and EksBlowfishSetup accept
// for a non-empty salt.
const SaltLength = 16

// MinKeyLength and MaxKeyLength bound the key passed to ExpandKey and
// EksBlowfishSetup. The key must already carry its trailing zero byte.
const (
	MinKeyLength = 1
	MaxKeyLength = 72
)

// MinCost and MaxCost bound the cost factor accepted by EksBlowfishSetup.
const (
	MinCost = 4
	MaxCost = 31
)

// InvalidSaltLengthError reports a salt whose length ExpandKey cannot use.
type InvalidSaltLengthError int

func (e InvalidSaltLengthError) Error() string {
	return "eksblowfish: invalid salt length " + strconv.Itoa(int(e))
}

// InvalidKeyLengthError reports a key whose length ExpandKey cannot use.
type InvalidKeyLengthError int

func (e InvalidKeyLengthError) Error() string {
	return "eksblowfish: invalid key length " + strconv.Itoa(int(e))
}

// InvalidCostError reports a cost factor outside [MinCost, MaxCost].
type InvalidCostError int

func (e InvalidCostError) Error() string {
	return "eksblowfish: invalid cost " + strconv.Itoa(int(e))
}

// ExpandKey absorbs key and salt into state, following bcrypt's
// ExpandKey algorithm: key bytes are folded into the P-array, then a
// zeroed 8-byte block is repeatedly XORed with alternating salt halves
// and re-encrypted under the state being built, overwriting P and then
// the four S-boxes in turn.
//
// salt must be empty or exactly SaltLength bytes; key must be between
// MinKeyLength and MaxKeyLength bytes inclusive.
func ExpandKey(state *State, salt, key []byte) error {
	if len(salt) != 0 && len(salt) != SaltLength {
		return InvalidSaltLengthError(len(salt))
	}
	if len(key) < MinKeyLength || len(key) > MaxKeyLength {
		return InvalidKeyLengthError(len(key))
	}
	j := 0
	for i := 0; i < 18; i++ {
		var d uint32
		for k := 0; k < 4; k++ {
			d = d<<8 | uint32(key[j%len(key)])
			j++
		}
		state.p[i] ^= d
	}
	var block [8]byte
	half := 0
	for i := 0; i < 9; i++ {
		if len(salt) != 0 {
			xorBlock(block[:], salt[half*8:half*8+8])
			half ^= 1
		}
		state.Encrypt(block[:], block[:])
		state.p[2*i] = beUint32(block[0:4])
		state.p[2*i+1] = beUint32(block[4:8])
	}
	for s := 0; s < 4; s++ {
		for i := 0; i < 128; i++ {
			if len(salt) != 0 {
				xorBlock(block[:], salt[half*8:half*8+8])
				half ^= 1
			}
			state.Encrypt(block[:], block[:])
			state.s[s][2*i] = beUint32(block[0:4])
			state.s[s][2*i+1] = beUint32(block[4:8])
		}
	}
	return nil
}

// EksBlowfishSetup derives the expensive key schedule for the given
// cost, salt and key: it initialises a fresh State to the canonical
// constants, absorbs (salt, key) once, then repeats the alternating
// (zero, key) / (zero, salt) absorption 2^cost times.
func EksBlowfishSetup(cost uint8, salt, key []byte) (*State, error) {
	if cost < MinCost || cost > MaxCost {
		return nil, InvalidCostError(cost)
	}
	if len(key) < MinKeyLength || len(key) > MaxKeyLength {
		return nil, InvalidKeyLengthError(len(key))
	}
	if len(salt) != SaltLength {
		return nil, InvalidSaltLengthError(len(salt))
	}
	state := NewState()
	if err := ExpandKey(state, salt, key); err != nil {
		return nil, err
	}
	var zero [SaltLength]byte
	rounds := uint64(1) << cost
	for r := uint64(0); r < rounds; r++ {
		if err := ExpandKey(state, zero[:], key); err != nil {
			return nil, err
		}
		if err := ExpandKey(state, zero[:], salt); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func xorBlock(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
