package game

// Color is a card color. Grey is the wild color: it plays on anything,
// anything plays on it, and it never earns color or equipment bonuses.
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorGrey   Color = "grey"
)

// Card is a value object; the deck contains many identical copies.
type Card struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// deckTable is the fixed 64-card composition. The three scoring colors carry
// 20 cards each, weighted toward low values; grey contributes one card per
// value.
var deckTable = []struct {
	color Color
	value int
	count int
}{
	{ColorRed, 3, 8}, {ColorRed, 4, 6}, {ColorRed, 5, 4}, {ColorRed, 6, 2},
	{ColorYellow, 3, 8}, {ColorYellow, 4, 6}, {ColorYellow, 5, 4}, {ColorYellow, 6, 2},
	{ColorGreen, 3, 8}, {ColorGreen, 4, 6}, {ColorGreen, 5, 4}, {ColorGreen, 6, 2},
	{ColorGrey, 3, 1}, {ColorGrey, 4, 1}, {ColorGrey, 5, 1}, {ColorGrey, 6, 1},
}

// DeckSize is the number of cards a fresh deck holds.
const DeckSize = 64

// NewDeck returns the unshuffled card multiset.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, row := range deckTable {
		for i := 0; i < row.count; i++ {
			deck = append(deck, Card{Color: row.color, Value: row.value})
		}
	}
	return deck
}

// Legacy clients mirror the shuffle from the broadcast seed, so these
// parameters and the traversal order in ShuffleDeck must not change.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280

	// SeedRange bounds the random shuffle seed: [0, SeedRange).
	SeedRange = 1_000_000
)

func lcgNext(seed int) int {
	return (seed*lcgMultiplier + lcgIncrement) % lcgModulus
}

// ShuffleDeck runs Fisher-Yates from the last index down to 1, driven by the
// linear congruential recurrence above. Identical seeds produce identical
// orderings. The input slice is not modified.
func ShuffleDeck(deck []Card, seed int) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i >= 1; i-- {
		seed = lcgNext(seed)
		draw := float64(seed) / float64(lcgModulus)
		j := int(draw * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
