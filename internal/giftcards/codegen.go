package giftcards

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// Codes look like INF-XXXX-XXXX. The alphabet drops 0/O and 1/I so staff can
// read codes back over the phone without ambiguity.
const (
	codePrefix        = "INF"
	codeSegmentLength = 4
	codeAlphabet      = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// maxCodeAttempts bounds GenerateUniqueCode. With 32^8 possible codes a
	// collision is already unlikely on the first draw; hitting the ceiling
	// means the existence check is broken, not that the space is exhausted.
	maxCodeAttempts = 20
)

// ErrCodeGenerationExhausted is returned when GenerateUniqueCode gives up
// after maxCodeAttempts collisions.
var ErrCodeGenerationExhausted = errors.New("gift card code generation exhausted after maximum attempts")

// GenerateCode produces a random code in the INF-XXXX-XXXX format. Pure
// aside from reading entropy; no I/O.
func GenerateCode() string {
	buf := make([]byte, codeSegmentLength*2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is gone
		panic(fmt.Sprintf("read random bytes: %v", err))
	}

	code := make([]byte, 0, len(codePrefix)+1+codeSegmentLength*2+1)
	code = append(code, codePrefix...)
	code = append(code, '-')
	for i, b := range buf {
		if i == codeSegmentLength {
			code = append(code, '-')
		}
		// len(codeAlphabet) divides 256, so the modulo is unbiased
		code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return string(code)
}

// GenerateUniqueCode draws codes until the existence check reports a fresh
// one, giving up with ErrCodeGenerationExhausted after maxCodeAttempts.
func GenerateUniqueCode(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := GenerateCode()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code existence: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}
