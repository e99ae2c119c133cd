package utils

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// RandomCode returns a random string of length n over the given
// alphabet, suitable for human-shareable codes.
func RandomCode(alphabet string, n int) string {
	code := make([]byte, n)
	for i := range code {
		idx, err := crand.Int(crand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = alphabet[rand.Intn(len(alphabet))]
			continue
		}
		code[i] = alphabet[idx.Int64()]
	}
	return string(code)
}
