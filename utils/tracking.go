package utils

import (
	"math/rand"
	"strings"
)

// Alphabet without 0/O/1/I so codes survive handwriting and phone calls.
const trackingAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTrackingCode returns a code like "APE-7K2MQ9XWRT".
func GenerateTrackingCode(prefix string) string {
	if prefix == "" {
		prefix = "APE"
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < 10; i++ {
		b.WriteByte(trackingAlphabet[rand.Intn(len(trackingAlphabet))])
	}
	return b.String()
}
