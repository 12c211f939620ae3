package helpers

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// Codes are drawn from [100000, 999999]: leading-zero codes are never
// produced, matching what verification emails have always shown users.
const (
	otpMin = 100000
	otpMax = 999999
)

// GenOTPCode generates a random 6-digit verification code.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
