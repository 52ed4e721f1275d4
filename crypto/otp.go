package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewOtp returns a 6 digit one time code drawn from crypto/rand.
// The range [100000, 999999] keeps the leading digit nonzero, so the
// code survives round trips through clients that treat it as a number.
func NewOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
