package game

import "math"

// CanPlayOn reports whether c may legally start a play on top of top. Grey is
// wild in both directions; otherwise color or value must match.
func CanPlayOn(c, top Card) bool {
	return c.Color == ColorGrey || top.Color == ColorGrey ||
		c.Color == top.Color || c.Value == top.Value
}

// playCost simulates the batch-play streak over a sequence of cards and
// returns the total AP cost plus the batch state after the sequence. A card
// is free only when batch mode is already live and its color continues the
// streak; every color change costs 1 AP and restarts the streak.
func playCost(cards []Card, batch bool, batchColor Color) (cost int, outBatch bool, outColor Color) {
	for _, c := range cards {
		if batch && c.Color == batchColor {
			continue
		}
		cost++
		batch, batchColor = true, c.Color
	}
	return cost, batch, batchColor
}

// handHolds reports whether hand contains the selection as a multiset:
// duplicate selections each need their own physical card.
func handHolds(hand, selection []Card) bool {
	need := make(map[Card]int, len(selection))
	for _, c := range selection {
		need[c]++
	}
	have := make(map[Card]int, len(hand))
	for _, c := range hand {
		have[c]++
	}
	for c, n := range need {
		if have[c] < n {
			return false
		}
	}
	return true
}

// removeFromHand takes one physical card per selected card out of hand,
// matching by (color, value). Possession must have been checked first.
func removeFromHand(hand, selection []Card) []Card {
	for _, want := range selection {
		for i, c := range hand {
			if c == want {
				hand = append(hand[:i], hand[i+1:]...)
				break
			}
		}
	}
	return hand
}

// characterColorBonus is the per-character scoring modifier. The half-point
// offsets only matter through the ceil in cardFans.
func characterColorBonus(characterID int, color Color) float64 {
	switch characterID {
	case 1:
		switch color {
		case ColorRed:
			return 0.5
		case ColorGreen:
			return -0.5
		}
	case 2:
		switch color {
		case ColorYellow:
			return 0.5
		case ColorRed:
			return -0.5
		}
	case characterExtraDraw:
		switch color {
		case ColorGreen:
			return 0.5
		case ColorYellow:
			return -0.5
		}
	}
	return 0
}

// cardFans scores a single played card for a player. Grey cards earn no
// equipment bonus.
func cardFans(c Card, characterID int, equipment map[Color]int) int {
	fans := int(math.Ceil(float64(c.Value) + characterColorBonus(characterID, c.Color)))
	if c.Color != ColorGrey {
		fans += equipment[c.Color]
	}
	return fans
}

// spendAP deducts n action points, consuming the transient pool first.
// Callers must have verified AP+TempAP >= n.
func (ps *PlayerState) spendAP(n int) {
	fromTemp := n
	if fromTemp > ps.TempAP {
		fromTemp = ps.TempAP
	}
	ps.TempAP -= fromTemp
	ps.AP -= n - fromTemp
}
