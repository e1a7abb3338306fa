package game

import "testing"

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}

	byColor := make(map[Color]int)
	for _, c := range deck {
		byColor[c.Color]++
		if c.Value < 3 || c.Value > 6 {
			t.Fatalf("unexpected card value %d", c.Value)
		}
	}
	for _, color := range []Color{ColorRed, ColorYellow, ColorGreen} {
		if byColor[color] != 20 {
			t.Fatalf("expected 20 %s cards, got %d", color, byColor[color])
		}
	}
	if byColor[ColorGrey] != 4 {
		t.Fatalf("expected 4 grey cards, got %d", byColor[ColorGrey])
	}
}

func TestLCGRecurrence(t *testing.T) {
	// (123*9301 + 49297) mod 233280
	if got := lcgNext(123); got != 26920 {
		t.Fatalf("expected lcgNext(123) == 26920, got %d", got)
	}
	if got := lcgNext(0); got != 49297 {
		t.Fatalf("expected lcgNext(0) == 49297, got %d", got)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	deck := NewDeck()
	a := ShuffleDeck(deck, 4711)
	b := ShuffleDeck(deck, 4711)
	if len(a) != len(b) {
		t.Fatalf("shuffles differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("identical seeds diverged at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestShuffleSeedsDiverge(t *testing.T) {
	deck := NewDeck()
	a := ShuffleDeck(deck, 1)
	b := ShuffleDeck(deck, 2)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced the same ordering")
	}
}

func TestShuffleDoesNotModifyInput(t *testing.T) {
	deck := NewDeck()
	before := make([]Card, len(deck))
	copy(before, deck)
	_ = ShuffleDeck(deck, 99)
	for i := range deck {
		if deck[i] != before[i] {
			t.Fatalf("input deck modified at index %d", i)
		}
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	deck := NewDeck()
	shuffled := ShuffleDeck(deck, 31337)

	count := func(cards []Card) map[Card]int {
		m := make(map[Card]int)
		for _, c := range cards {
			m[c]++
		}
		return m
	}
	orig, shuf := count(deck), count(shuffled)
	if len(orig) != len(shuf) {
		t.Fatalf("card kinds differ: %d vs %d", len(orig), len(shuf))
	}
	for c, n := range orig {
		if shuf[c] != n {
			t.Fatalf("count of %v changed from %d to %d", c, n, shuf[c])
		}
	}
}
