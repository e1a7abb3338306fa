package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one room: its roster, host designation and, once started, the
// embedded game state. All exported methods serialize on the session mutex,
// so two actions against the same room never interleave while different
// rooms run concurrently.
type Session struct {
	Code       string
	CreatedAt  time.Time
	HostID     string
	MaxPlayers int
	Phase      Phase
	Roster     []*Player
	Game       *GameState
	Winner     string

	rng *rand.Rand
	mu  sync.Mutex
}

// NewSession creates a lobby with host as its only member. All randomness for
// this room (deck seed, skill drops) is drawn from rng, server-side.
func NewSession(code string, maxPlayers int, host Player, rng *rand.Rand) *Session {
	host.IsHost = true
	return &Session{
		Code:       code,
		CreatedAt:  time.Now().UTC(),
		HostID:     host.ConnectionID,
		MaxPlayers: maxPlayers,
		Phase:      PhaseLobby,
		Roster:     []*Player{&host},
		rng:        rng,
	}
}

// SessionSnapshot is a copy of the room's public shape, safe to hand to the
// transport layer without holding the lock.
type SessionSnapshot struct {
	Code       string   `json:"roomId"`
	HostID     string   `json:"hostId"`
	MaxPlayers int      `json:"maxPlayers"`
	Phase      Phase    `json:"phase"`
	Players    []Player `json:"players"`
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := make([]Player, 0, len(s.Roster))
	for _, p := range s.Roster {
		players = append(players, *p)
	}
	return SessionSnapshot{
		Code:       s.Code,
		HostID:     s.HostID,
		MaxPlayers: s.MaxPlayers,
		Phase:      s.Phase,
		Players:    players,
	}
}

func (s *Session) addPlayer(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseLobby {
		return ErrGameAlreadyStarted
	}
	if len(s.Roster) >= s.MaxPlayers {
		return ErrRoomFull
	}
	s.Roster = append(s.Roster, p)
	return nil
}

// LeaveOutcome describes what a departure did to the room, so the transport
// layer knows which events to emit.
type LeaveOutcome struct {
	Code      string
	Player    Player
	NewHostID string
	Destroyed bool
	Turn      *TurnResult
}

// removePlayer drops a connection from the roster. If the departing player
// held the turn, the turn auto-advances to the player who would have been
// next; their hand goes back to the bottom of the deck so the card multiset
// stays intact.
func (s *Session) removePlayer(connID string) *LeaveOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.Roster {
		if p.ConnectionID == connID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	departed := s.Roster[idx]
	out := &LeaveOutcome{Code: s.Code, Player: *departed}

	n := len(s.Roster)
	successor := ""
	if s.Phase == PhaseActive && s.Game.CurrentPlayerID == connID && n > 1 {
		successor = s.Roster[(idx-1+n)%n].ConnectionID
	}

	s.Roster = append(s.Roster[:idx], s.Roster[idx+1:]...)

	if s.Game != nil {
		if hand := s.Game.Hands[connID]; len(hand) > 0 {
			s.Game.Deck = append(append([]Card{}, hand...), s.Game.Deck...)
		}
		delete(s.Game.Hands, connID)
		delete(s.Game.PlayerStates, connID)
	}

	if len(s.Roster) == 0 {
		out.Destroyed = true
		return out
	}

	if departed.IsHost {
		s.Roster[0].IsHost = true
		s.HostID = s.Roster[0].ConnectionID
		out.NewHostID = s.HostID
	}

	if successor != "" {
		out.Turn = s.refreshTurn(successor)
	}
	return out
}

// StartResult carries everything the transport needs to announce a started
// game: the public seed and roster-wide facts plus the private hands.
type StartResult struct {
	GameID          string
	Seed            int
	TopCard         Card
	CurrentPlayerID string
	Hands           map[string][]Card
}

// Start moves the session from Lobby to Active. Host only, at least two
// players, one-shot: a session never restarts.
func (s *Session) Start(requesterID string) (*StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Phase {
	case PhaseActive:
		return nil, ErrGameAlreadyStarted
	case PhaseFinished:
		return nil, ErrGameFinished
	}
	if requesterID != s.HostID {
		return nil, ErrNotHost
	}
	if len(s.Roster) < minPlayersToStart {
		return nil, ErrNotEnoughPlayers
	}
	// The deal plus the opening flip must fit into one deck.
	if len(s.Roster)*startingHandSize+1 > DeckSize {
		return nil, ErrTooManyPlayers
	}

	seed := s.rng.Intn(SeedRange)
	g := &GameState{
		ID:           uuid.NewString(),
		Seed:         seed,
		Deck:         ShuffleDeck(NewDeck(), seed),
		Hands:        make(map[string][]Card, len(s.Roster)),
		PlayerStates: make(map[string]*PlayerState, len(s.Roster)),
	}

	for _, p := range s.Roster {
		hand := make([]Card, 0, startingHandSize)
		for i := 0; i < startingHandSize; i++ {
			c, ok := g.drawOne()
			if !ok {
				break
			}
			hand = append(hand, c)
		}
		g.Hands[p.ConnectionID] = hand
		g.PlayerStates[p.ConnectionID] = newPlayerState(p.CharacterID)
	}

	top, ok := g.drawOne()
	if !ok {
		// Unreachable behind the roster-size guard.
		return nil, ErrDeckEmpty
	}
	g.DiscardPile = append(g.DiscardPile, top)

	first := s.Roster[0]
	g.CurrentPlayerID = first.ConnectionID
	// The opening turn plays from the freshly dealt hand; the start-of-turn
	// draw happens the next time this player's turn comes around.
	g.PlayerStates[first.ConnectionID].HasHadFirstTurn = true

	s.Game = g
	s.Phase = PhaseActive

	hands := make(map[string][]Card, len(g.Hands))
	for id, hand := range g.Hands {
		hands[id] = append([]Card{}, hand...)
	}
	return &StartResult{
		GameID:          g.ID,
		Seed:            seed,
		TopCard:         top,
		CurrentPlayerID: g.CurrentPlayerID,
		Hands:           hands,
	}, nil
}

// requireTurn gates every in-game action: the session must be Active and the
// requester must hold the turn. Callers hold the lock.
func (s *Session) requireTurn(requesterID string) error {
	switch s.Phase {
	case PhaseLobby:
		return ErrGameNotStarted
	case PhaseFinished:
		return ErrGameFinished
	}
	if s.Game.CurrentPlayerID != requesterID {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) indexOf(connID string) int {
	for i, p := range s.Roster {
		if p.ConnectionID == connID {
			return i
		}
	}
	return -1
}

func (s *Session) playerByID(connID string) *Player {
	if i := s.indexOf(connID); i >= 0 {
		return s.Roster[i]
	}
	return nil
}

// checkMilestones fires each global bonus at most once per session, no matter
// who crosses the threshold or whether fans later drop below it again.
func (s *Session) checkMilestones() []string {
	g := s.Game
	anyAtLeast := func(threshold int) bool {
		for _, ps := range g.PlayerStates {
			if ps.Fans >= threshold {
				return true
			}
		}
		return false
	}

	var fired []string
	if !g.Fans50Reached && anyAtLeast(milestone50Fans) {
		g.Fans50Reached = true
		for _, ps := range g.PlayerStates {
			ps.ExtraDrawCount++
			ps.MaxHandSize++
		}
		fired = append(fired, Milestone50)
	}
	if !g.Fans100Reached && anyAtLeast(milestone100Fans) {
		g.Fans100Reached = true
		for _, ps := range g.PlayerStates {
			ps.MaxAP++
		}
		fired = append(fired, Milestone100)
	}
	return fired
}

func (s *Session) checkWin() string {
	for _, p := range s.Roster {
		if ps := s.Game.PlayerStates[p.ConnectionID]; ps != nil && ps.Fans >= winFans {
			return p.ConnectionID
		}
	}
	return ""
}
