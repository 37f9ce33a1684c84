// Package tableid generates sortable identifiers for tables: a 48-bit
// millisecond timestamp followed by 80 random bits, in the UUIDv7 layout,
// encoded as 26 characters of Crockford base32.
package tableid

import (
	crand "crypto/rand"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/coder/quartz"
)

// Length is the number of characters in an id.
const Length = 26

// Crockford's base32: no i, l, o or u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator produces table ids. The zero value is not usable; use New.
type Generator struct {
	clock quartz.Clock
	rng   *rand.Rand // Nil reads crypto/rand
}

// New returns a generator using clock for timestamps and rng for the random
// tail. A nil clock selects the real clock and a nil rng the secure source.
func New(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate returns a new id with the real clock and secure randomness.
func Generate() string {
	return New(nil, nil).Generate()
}

// Generate returns a new id. Ids from later milliseconds sort after earlier
// ones.
func (g *Generator) Generate() string {
	var id [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := range 6 {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rng != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rng.UintN(256))
		}
	} else if _, err := crand.Read(id[6:]); err != nil {
		panic("tableid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10

	return encode(id)
}

// encode writes the 128 bits as 26 five-bit groups, with two zero pad bits
// in front so the first character is always 0-7.
func encode(id [16]byte) string {
	var b strings.Builder
	b.Grow(Length)

	var acc uint32
	bits := 2
	for _, v := range id {
		acc = acc<<8 | uint32(v)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b.WriteByte(alphabet[(acc>>bits)&0x1f])
		}
	}
	return b.String()
}

// Validate checks that id is a well-formed table id.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("table id must be %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("table id first character must be 0-7, got %c", id[0])
	}
	for i := range len(id) {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %q at position %d", id[i], i)
		}
	}
	return nil
}
