// Package hash implements encoding and decoding of the bcrypt crypt(3)
// hash string.
//
// The mapping between a hash string and a Go struct is described
// in the documentation for Marshal and Unmarshal: a struct field becomes
// a '$'-delimited fragment of the string, in declaration order, unless a
// "hash" struct tag says otherwise.
package hash
