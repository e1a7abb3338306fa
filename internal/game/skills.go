package game

// SkillID identifies a consumable skill card.
type SkillID string

const (
	SkillHater  SkillID = "HATER"
	SkillStayUp SkillID = "STAY_UP"
)

// supportedSkills is the drop pool for rollSkillDrop.
var supportedSkills = []SkillID{SkillHater, SkillStayUp}

// skillEffect applies a skill for actor and returns the broadcast payload.
// The caller holds the session lock and has already charged the AP cost and
// consumed the card, so effects only mutate state. New skills register here
// without touching the turn engine.
type skillEffect func(s *Session, actorID string) map[string]any

var skillEffects = map[SkillID]skillEffect{
	SkillHater:  haterEffect,
	SkillStayUp: stayUpEffect,
}

// haterEffect costs every other player 10% of their current fans, floored.
func haterEffect(s *Session, actorID string) map[string]any {
	losses := make(map[string]int)
	for _, p := range s.Roster {
		if p.ConnectionID == actorID {
			continue
		}
		ps := s.Game.PlayerStates[p.ConnectionID]
		loss := ps.Fans / 10
		ps.Fans -= loss
		losses[p.ConnectionID] = loss
	}
	return map[string]any{"fansLost": losses}
}

// stayUpEffect grants +3 transient AP now and stacks one AP of penalty onto
// the user's next turn.
func stayUpEffect(s *Session, actorID string) map[string]any {
	ps := s.Game.PlayerStates[actorID]
	ps.TempAP += 3
	ps.NextTurnAPPenalty++
	return map[string]any{
		"tempAp":            ps.TempAP,
		"nextTurnApPenalty": ps.NextTurnAPPenalty,
	}
}

// SkillResult reports a used skill and its effect payload for broadcast.
type SkillResult struct {
	Skill   SkillID
	Payload map[string]any
}

// UseSkill spends 1 AP and one owned copy of the skill, capped at one use of
// each skill per turn.
func (s *Session) UseSkill(requesterID string, skill SkillID) (*SkillResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(requesterID); err != nil {
		return nil, err
	}
	effect, ok := skillEffects[skill]
	if !ok {
		return nil, ErrInvalidSkill
	}
	ps := s.Game.PlayerStates[requesterID]
	if ps.AP+ps.TempAP < 1 {
		return nil, ErrNotEnoughAP
	}
	if ps.SkillCards[skill] < 1 {
		return nil, ErrSkillNotOwned
	}
	if ps.SkillUsageThisTurn[skill] >= skillUsesPerTurn {
		return nil, ErrSkillExhausted
	}

	ps.SkillCards[skill]--
	ps.SkillUsageThisTurn[skill]++
	ps.spendAP(1)
	payload := effect(s, requesterID)

	return &SkillResult{Skill: skill, Payload: payload}, nil
}
