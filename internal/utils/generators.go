package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateConfirmationCode returns the short opaque token a buyer presents
// at the door: 6 characters, uppercase letters and digits.
func GenerateConfirmationCode() string {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand failing means the platform RNG is broken;
			// fall back to a timestamp-derived index.
			code[i] = codeAlphabet[int(time.Now().UnixNano())%len(codeAlphabet)]
			continue
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

// GenerateReceiptName builds the stored filename for an uploaded receipt:
// upload instant in unix milliseconds plus the original extension.
func GenerateReceiptName(ext string) string {
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), ext)
}
