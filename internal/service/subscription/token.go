package subscription

import "crypto/rand"

const (
	tokenLength   = 25
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateToken returns a fresh 25-character alphanumeric confirmation
// token. Tokens are drawn uniformly from crypto/rand; uniqueness is not
// enforced anywhere, the ~149 bits of entropy make collisions a negligible
// residual risk.
func GenerateToken() string {
	out := make([]byte, 0, tokenLength)
	buf := make([]byte, 32)
	for len(out) < tokenLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand does not fail on any supported platform.
			panic("subscription: crypto/rand failed: " + err.Error())
		}
		for _, b := range buf {
			// Reject bytes >= 248 so b%62 stays uniform.
			if b >= byte(len(tokenAlphabet))*4 {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == tokenLength {
				break
			}
		}
	}
	return string(out)
}
