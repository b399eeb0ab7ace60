package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/evan2110/web-application/pkg/constant"
)

// generateVerificationCode produces the 6-digit step-up code. The alphabet
// has no zero, matching what users are shown in the verification email.
func generateVerificationCode() (string, error) {
	code := make([]byte, constant.VerificationCodeLength)
	alphabet := constant.VerificationCodeAlphabet

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}
