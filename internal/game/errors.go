package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrNotInRoom          = errors.New("not in a room")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameNotStarted     = errors.New("game not started")
	ErrGameFinished       = errors.New("game already finished")
	ErrNotHost            = errors.New("only the host can do that")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNotEnoughPlayers   = errors.New("need at least two players")
	ErrTooManyPlayers     = errors.New("too many players for one deck")
	ErrNotEnoughAP        = errors.New("not enough action points")
	ErrDeckEmpty          = errors.New("deck is empty")
	ErrHandFull           = errors.New("hand is full")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrIllegalPlay        = errors.New("card matches neither color nor value of the top card")
	ErrNoCardsSelected    = errors.New("no cards selected")
	ErrSkillNotOwned      = errors.New("skill card not owned")
	ErrSkillExhausted     = errors.New("skill already used this turn")
	ErrInvalidSkill       = errors.New("unknown skill")
)

// Kind classifies rejections for the wire protocol. Every engine error maps
// onto exactly one kind; handlers reject before any mutation, so a non-nil
// error always means "no effect".
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindResource      Kind = "resource"
	KindTerminal      Kind = "terminal"
)

var errCodes = map[error]string{
	ErrRoomNotFound:       "room_not_found",
	ErrRoomFull:           "room_full",
	ErrNotInRoom:          "not_in_room",
	ErrGameAlreadyStarted: "game_already_started",
	ErrGameNotStarted:     "game_not_started",
	ErrGameFinished:       "game_finished",
	ErrNotHost:            "not_host",
	ErrNotYourTurn:        "not_your_turn",
	ErrNotEnoughPlayers:   "not_enough_players",
	ErrTooManyPlayers:     "too_many_players",
	ErrNotEnoughAP:        "not_enough_ap",
	ErrDeckEmpty:          "deck_empty",
	ErrHandFull:           "hand_full",
	ErrCardNotInHand:      "card_not_in_hand",
	ErrIllegalPlay:        "illegal_play",
	ErrNoCardsSelected:    "no_cards_selected",
	ErrSkillNotOwned:      "skill_not_owned",
	ErrSkillExhausted:     "skill_exhausted",
	ErrInvalidSkill:       "invalid_skill",
}

// Code returns the wire identifier for err.
func Code(err error) string {
	for e, code := range errCodes {
		if errors.Is(err, e) {
			return code
		}
	}
	return "internal_error"
}

// KindOf maps an engine error onto the rejection taxonomy.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotHost), errors.Is(err, ErrNotYourTurn):
		return KindAuthorization
	case errors.Is(err, ErrGameAlreadyStarted), errors.Is(err, ErrGameNotStarted), errors.Is(err, ErrGameFinished):
		return KindTerminal
	case errors.Is(err, ErrInvalidSkill), errors.Is(err, ErrNoCardsSelected), errors.Is(err, ErrNotInRoom):
		return KindValidation
	default:
		return KindResource
	}
}
