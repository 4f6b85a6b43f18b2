// Package eksblowfish implements the Blowfish block cipher and the
// "expensive key schedule" variant of it used by bcrypt.
package eksblowfish

import "encoding/binary"

// BlockSize is the Blowfish block size in bytes.
const BlockSize = 8

// State holds a Blowfish key schedule: the 18-word P-array and the four
// 256-word S-boxes. A State is never shared between concurrent callers;
// each hashing operation owns its own instance.
type State struct {
	p [18]uint32
	s [4][256]uint32
}

// NewState returns a State initialised to the canonical, π-derived
// Blowfish seed constants.
func NewState() *State {
	st := &State{p: pOrig, s: sOrig}
	return st
}

// Encrypt encrypts the 8-byte block in src under the current key
// schedule, writing the result to dst. src and dst may overlap exactly.
func (st *State) Encrypt(dst, src []byte) {
	l := binary.BigEndian.Uint32(src[0:4])
	r := binary.BigEndian.Uint32(src[4:8])
	l, r = st.encryptBlock(l, r)
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

func (st *State) encryptBlock(l, r uint32) (uint32, uint32) {
	for i := 0; i < 16; i += 2 {
		l ^= st.p[i]
		r ^= st.f(l)
		r ^= st.p[i+1]
		l ^= st.f(r)
	}
	l ^= st.p[16]
	r ^= st.p[17]
	return r, l
}

// f is the Blowfish Feistel round function.
func (st *State) f(x uint32) uint32 {
	return ((st.s[0][x>>24] + st.s[1][(x>>16)&0xff]) ^ st.s[2][(x>>8)&0xff]) + st.s[3][x&0xff]
}
