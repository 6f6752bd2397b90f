package giftcards

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCode()

		require.Len(t, code, 13)
		assert.True(t, strings.HasPrefix(code, "INF-"))
		assert.Equal(t, byte('-'), code[8])

		for _, ch := range code[4:8] + code[9:] {
			assert.Contains(t, codeAlphabet, string(ch))
		}
	}
}

func TestGenerateCode_ExcludesAmbiguousCharacters(t *testing.T) {
	assert.NotContains(t, codeAlphabet, "0")
	assert.NotContains(t, codeAlphabet, "O")
	assert.NotContains(t, codeAlphabet, "1")
	assert.NotContains(t, codeAlphabet, "I")
	// L stays in: it is unambiguous in uppercase
	assert.Contains(t, codeAlphabet, "L")
}

func TestGenerateUniqueCode_ReturnsFreshCode(t *testing.T) {
	ctx := context.Background()
	seen := make(map[string]bool)

	// Every returned code is recorded; across many draws no code repeats
	for i := 0; i < 50; i++ {
		code, err := GenerateUniqueCode(ctx, func(ctx context.Context, code string) (bool, error) {
			return seen[code], nil
		})
		require.NoError(t, err)
		assert.False(t, seen[code], "generator returned a code the store already had")
		seen[code] = true
	}
}

func TestGenerateUniqueCode_RetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	calls := 0

	// First two candidates collide, third is fresh
	code, err := GenerateUniqueCode(ctx, func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls <= 2, nil
	})

	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, calls)
}

func TestGenerateUniqueCode_ExhaustsAfterCeiling(t *testing.T) {
	ctx := context.Background()
	calls := 0

	code, err := GenerateUniqueCode(ctx, func(ctx context.Context, code string) (bool, error) {
		calls++
		return true, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodeGenerationExhausted)
	assert.Empty(t, code)
	assert.Equal(t, maxCodeAttempts, calls)
}

func TestGenerateUniqueCode_PropagatesCheckError(t *testing.T) {
	ctx := context.Background()
	checkErr := errors.New("database unavailable")

	code, err := GenerateUniqueCode(ctx, func(ctx context.Context, code string) (bool, error) {
		return false, checkErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, checkErr)
	assert.Empty(t, code)
}

func TestGenerateUniqueCode_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code, err := GenerateUniqueCode(ctx, func(ctx context.Context, code string) (bool, error) {
		return true, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, code)
}
