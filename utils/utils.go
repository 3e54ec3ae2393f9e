package utils

import (
	"fmt"
	rndm "math/rand"
	"slices"
	"time"
)

// --- Random String and ID Generators ---

var digitRunes = []rune("0123456789")

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// NewOrderNumber builds a human-facing order number: ORD<yy><mm><4 digits>.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%02d%02d%s", now.Year()%100, int(now.Month()), GenerateRandomDigitString(4))
}

// --- Slice Helpers ---

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}
