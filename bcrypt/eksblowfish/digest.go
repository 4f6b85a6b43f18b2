package eksblowfish

// magic is the 24-byte constant bcrypt encrypts under the expensive key
// schedule. It spells "OrpheanBeholderScryDoubt", the output of ECB
// running Blowfish's own canonical test driver.
var magic = [24]byte{
	'O', 'r', 'p', 'h', 'e', 'a', 'n', 'B',
	'e', 'h', 'o', 'l', 'd', 'e', 'r', 'S',
	'c', 'r', 'y', 'D', 'o', 'u', 'b', 't',
}

// Digest derives the EksBlowfish key schedule from cost, salt and key,
// then encrypts the magic constant 64 times in ECB, returning the
// resulting 24-byte raw bcrypt digest.
func Digest(cost uint8, salt, key []byte) ([24]byte, error) {
	var out [24]byte
	state, err := EksBlowfishSetup(cost, salt, key)
	if err != nil {
		return out, err
	}
	out = magic
	for round := 0; round < 64; round++ {
		for i := 0; i < 24; i += BlockSize {
			state.Encrypt(out[i:i+BlockSize], out[i:i+BlockSize])
		}
	}
	return out, nil
}
