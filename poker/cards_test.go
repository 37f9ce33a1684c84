package poker

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	for suit := Hearts; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c, err := Encode(rank, suit)
			if err != nil {
				t.Fatalf("Encode(%v, %v): %v", rank, suit, err)
			}
			got, ok := c.Decode()
			if !ok {
				t.Fatalf("Decode(%s) reported undefined", c.State())
			}
			if got.Rank != rank || got.Suit != suit {
				t.Errorf("round trip %v%v -> %s -> %v", rank, suit, c.State(), got)
			}
		}
	}
}

func TestEncodingTablesBySign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		card Card
		want Classical
	}{
		{"two of hearts is positive zero", Card{Bits: 0, Sign: Positive}, Classical{Two, Hearts}},
		{"ace of hearts", Card{Bits: 12, Sign: Positive}, Classical{Ace, Hearts}},
		{"two of diamonds", Card{Bits: 13, Sign: Positive}, Classical{Two, Diamonds}},
		{"ace of diamonds", Card{Bits: 25, Sign: Positive}, Classical{Ace, Diamonds}},
		{"two of spades is negative zero", Card{Bits: 0, Sign: Negative}, Classical{Two, Spades}},
		{"ace of clubs", Card{Bits: 25, Sign: Negative}, Classical{Ace, Clubs}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.card.Decode()
			if !ok || got != tc.want {
				t.Errorf("Decode(%s) = %v, %v; want %v", tc.card.State(), got, ok, tc.want)
			}
		})
	}
}

func TestUndefinedStatesDecodeToNoCard(t *testing.T) {
	t.Parallel()

	undefined := 0
	for _, sign := range []Sign{Positive, Negative} {
		for bits := uint8(0); bits < StateCount; bits++ {
			c := Card{Bits: bits, Sign: sign}
			_, ok := c.Decode()
			if bits >= 26 {
				if ok {
					t.Errorf("state %s should be undefined", c.State())
				}
				if c.String() != "??" {
					t.Errorf("undefined state rendered as %q", c.String())
				}
				undefined++
			} else if !ok {
				t.Errorf("state %s should be defined", c.State())
			}
		}
	}
	if undefined != 12 {
		t.Errorf("expected 12 undefined states, got %d", undefined)
	}
}

func TestCanonicalCardsAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[Card]bool{}
	names := map[string]bool{}
	for _, c := range CanonicalCards() {
		if seen[c] {
			t.Errorf("duplicate encoding %s", c.State())
		}
		seen[c] = true
		names[c.String()] = true
	}
	if len(seen) != 52 || len(names) != 52 {
		t.Errorf("expected 52 distinct cards, got %d encodings and %d names", len(seen), len(names))
	}
	if first := CanonicalCards()[0]; first.String() != "2♥" {
		t.Errorf("build order should start with 2♥, got %s", first)
	}
}

func TestPhaseFlipSwapsSuitPair(t *testing.T) {
	t.Parallel()

	kh := MustEncode(King, Hearts)
	flipped := Card{Bits: kh.Bits, Sign: kh.Sign.Flip()}
	if got := flipped.String(); got != "K♠" {
		t.Errorf("expected K♥ to flip to K♠, got %s", got)
	}
}

func TestQubitAddressing(t *testing.T) {
	t.Parallel()

	c := Card{Bits: 0b10000, Sign: Positive}
	if c.Qubit(0) != 1 || c.Qubit(4) != 0 {
		t.Errorf("qubit 0 should be the most significant bit of %s", c.State())
	}
	if got := c.FlipQubit(0).Bits; got != 0 {
		t.Errorf("FlipQubit(0) = %05b, want 00000", got)
	}
	if got := c.FlipQubit(4).Bits; got != 0b10001 {
		t.Errorf("FlipQubit(4) = %05b, want 10001", got)
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    Classical
		wantErr bool
	}{
		{name: "ace of spades", input: "As", want: Classical{Ace, Spades}},
		{name: "ten with T", input: "Tc", want: Classical{Ten, Clubs}},
		{name: "ten with digits", input: "10d", want: Classical{Ten, Diamonds}},
		{name: "unicode suit", input: "Q♥", want: Classical{Queen, Hearts}},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			got, _ := card.Decode()
			if got != tc.want {
				t.Errorf("ParseCard(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestCardRendering(t *testing.T) {
	t.Parallel()

	c := MustEncode(Ten, Hearts)
	if c.String() != "10♥" || c.Short() != "Th" {
		t.Errorf("unexpected renderings %q %q", c.String(), c.Short())
	}
	if c.State() != "|01000⟩+" {
		t.Errorf("unexpected state rendering %q", c.State())
	}
}
