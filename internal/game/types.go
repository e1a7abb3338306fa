package game

// Phase is a session's lifecycle state. A session starts in Lobby, moves to
// Active exactly once, and Finished is terminal.
type Phase string

const (
	PhaseLobby    Phase = "Lobby"
	PhaseActive   Phase = "Active"
	PhaseFinished Phase = "Finished"
)

// Player is a roster entry. Everything but IsHost is immutable after join.
type Player struct {
	ConnectionID string `json:"id"`
	Name         string `json:"name"`
	CharacterID  int    `json:"characterId"`
	IsHost       bool   `json:"isHost"`
}

// PlayerState is a player's resource ledger, created at game start.
type PlayerState struct {
	AP                 int             `json:"ap"`
	MaxAP              int             `json:"maxAp"`
	TempAP             int             `json:"tempAp"`
	NextTurnAPPenalty  int             `json:"nextTurnApPenalty"`
	Fans               int             `json:"fans"`
	SkillCards         map[SkillID]int `json:"skillCards"`
	SkillUsageThisTurn map[SkillID]int `json:"-"`
	Equipment          map[Color]int   `json:"equipment"`
	HasHadFirstTurn    bool            `json:"-"`
	MaxHandSize        int             `json:"maxHandSize"`
	ExtraDrawCount     int             `json:"extraDrawCount"`
}

const (
	startingAP         = 3
	highAPStartingAP   = 4
	startingHandSize   = 7
	initialMaxHandSize = 10
	turnDrawBase       = 3
	minPlayersToStart  = 2

	winFans          = 150
	milestone50Fans  = 50
	milestone100Fans = 100

	skillDropChance  = 0.3
	skillUsesPerTurn = 1

	// Character ids with fixed perks.
	characterExtraDraw = 3
	characterHighAP    = 4
)

// Milestone names as broadcast to clients.
const (
	Milestone50  = "fans_50k"
	Milestone100 = "fans_100k"
)

func newPlayerState(characterID int) *PlayerState {
	maxAP := startingAP
	if characterID == characterHighAP {
		maxAP = highAPStartingAP
	}
	extraDraw := 0
	if characterID == characterExtraDraw {
		extraDraw = 1
	}
	return &PlayerState{
		AP:                 maxAP,
		MaxAP:              maxAP,
		SkillCards:         make(map[SkillID]int),
		SkillUsageThisTurn: make(map[SkillID]int),
		Equipment:          map[Color]int{ColorRed: 0, ColorYellow: 0, ColorGreen: 0},
		MaxHandSize:        initialMaxHandSize,
		ExtraDrawCount:     extraDraw,
	}
}

// GameState exists only while a session is Active or Finished. It is guarded
// by the owning session's mutex; cards only ever move between Deck, Hands and
// DiscardPile, so their multiset union stays at DeckSize for the session's
// lifetime.
type GameState struct {
	ID              string
	Seed            int
	CurrentPlayerID string
	Deck            []Card // draw pile, top at the end
	DiscardPile     []Card // last card is the visible top card
	Hands           map[string][]Card
	PlayerStates    map[string]*PlayerState
	BatchPlay       bool
	BatchColor      Color
	Fans50Reached   bool
	Fans100Reached  bool
}

// TopCard returns the visible discard card. The discard pile is never empty
// while a game exists; the opening flip seeds it.
func (g *GameState) TopCard() Card {
	return g.DiscardPile[len(g.DiscardPile)-1]
}

func (g *GameState) drawOne() (Card, bool) {
	if len(g.Deck) == 0 {
		return Card{}, false
	}
	c := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return c, true
}
