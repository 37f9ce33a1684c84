package tableid

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quantumholdem/internal/randutil"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	id := Generate()
	assert.Len(t, id, Length)
	require.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 200 {
		id := Generate()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerateSortsByTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	gen := New(clock, nil)

	var ids []string
	for range 10 {
		ids = append(ids, gen.Generate())
		clock.Advance(time.Millisecond).MustWait(ctx)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s should sort before %s", ids[i-1], ids[i])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	a := New(clock, randutil.New(7)).Generate()
	b := New(clock, randutil.New(7)).Generate()
	c := New(clock, randutil.New(8)).Generate()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a[:10], c[:10], "same millisecond shares the timestamp prefix")
}

func TestEncodeKnownValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, strings.Repeat("0", Length), encode([16]byte{}))

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7"+strings.Repeat("z", Length-1), encode(ones))

	var low [16]byte
	low[15] = 1
	assert.Equal(t, strings.Repeat("0", Length-1)+"1", encode(low))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first character too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"excluded letter", "01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase", "01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.id)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	t.Parallel()

	require.Len(t, alphabet, 32)
	seen := make(map[rune]bool)
	for _, r := range alphabet {
		assert.False(t, seen[r], "duplicate %c", r)
		seen[r] = true
	}
	for _, r := range "ilou" {
		assert.NotContains(t, alphabet, string(r))
	}
}
