package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// InviteCodeLength is the length of generated household invite codes.
const InviteCodeLength = 8

const inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewInviteCode returns n random characters from A-Z and 0-9.
func NewInviteCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invite code length must be positive, got %d", n)
	}

	max := big.NewInt(int64(len(inviteAlphabet)))
	code := make([]byte, n)
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		code[i] = inviteAlphabet[idx.Int64()]
	}

	return string(code), nil
}
