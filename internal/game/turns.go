package game

// TurnResult reports a turn handover: who plays now, what they drew at the
// start of their turn, and whether the skill-drop roll hit.
type TurnResult struct {
	CurrentPlayerID string
	Drawn           []Card
	SkillDrop       SkillID // empty when the roll missed
}

// DrawResult reports an elective draw.
type DrawResult struct {
	Card        Card
	APRemaining int
	SkillDrop   SkillID
}

// PlayResult reports a committed play: the cards moved to the discard pile,
// scoring, and any milestone or win it triggered.
type PlayResult struct {
	Cards      []Card
	TopCard    Card
	BatchColor Color
	APCost     int
	FansGained int
	TotalFans  int
	Milestones []string
	WinnerID   string
}

// EndTurn hands the turn to the previous roster neighbour; turn order runs
// in reverse of join order, wrapping.
func (s *Session) EndTurn(requesterID string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(requesterID); err != nil {
		return nil, err
	}
	n := len(s.Roster)
	next := s.Roster[(s.indexOf(requesterID)-1+n)%n]
	return s.refreshTurn(next.ConnectionID), nil
}

// refreshTurn makes playerID the current player and runs their start-of-turn
// sequence: AP refill minus any queued penalty, transient state reset, the
// start-of-turn draw (skipped on a player's very first turn), then the
// skill-drop roll. Callers hold the lock.
func (s *Session) refreshTurn(playerID string) *TurnResult {
	g := s.Game
	g.CurrentPlayerID = playerID
	ps := g.PlayerStates[playerID]

	ap := ps.MaxAP - ps.NextTurnAPPenalty
	if ap < 0 {
		ap = 0
	}
	ps.AP = ap
	ps.TempAP = 0
	ps.NextTurnAPPenalty = 0
	ps.SkillUsageThisTurn = make(map[SkillID]int)

	res := &TurnResult{CurrentPlayerID: playerID}
	if ps.HasHadFirstTurn {
		want := turnDrawBase + ps.ExtraDrawCount
		if room := ps.MaxHandSize - len(g.Hands[playerID]); want > room {
			want = room
		}
		for i := 0; i < want; i++ {
			c, ok := g.drawOne()
			if !ok {
				break
			}
			g.Hands[playerID] = append(g.Hands[playerID], c)
			res.Drawn = append(res.Drawn, c)
		}
	} else {
		ps.HasHadFirstTurn = true
	}

	res.SkillDrop = s.rollSkillDrop(playerID)
	return res
}

// DrawCard is the elective draw: costs 1 AP and rolls the skill drop.
func (s *Session) DrawCard(requesterID string) (*DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(requesterID); err != nil {
		return nil, err
	}
	g := s.Game
	ps := g.PlayerStates[requesterID]
	if len(g.Hands[requesterID]) >= ps.MaxHandSize {
		return nil, ErrHandFull
	}
	if ps.AP+ps.TempAP < 1 {
		return nil, ErrNotEnoughAP
	}
	if len(g.Deck) == 0 {
		return nil, ErrDeckEmpty
	}

	c, _ := g.drawOne()
	g.Hands[requesterID] = append(g.Hands[requesterID], c)
	ps.spendAP(1)

	return &DrawResult{
		Card:        c,
		APRemaining: ps.AP + ps.TempAP,
		SkillDrop:   s.rollSkillDrop(requesterID),
	}, nil
}

// PlayCards validates and commits a play. All checks complete before the
// first write, so a rejection leaves no partial effect.
func (s *Session) PlayCards(requesterID string, cards []Card) (*PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireTurn(requesterID); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoCardsSelected
	}

	g := s.Game
	hand := g.Hands[requesterID]
	if !handHolds(hand, cards) {
		return nil, ErrCardNotInHand
	}
	if !CanPlayOn(cards[0], g.TopCard()) {
		return nil, ErrIllegalPlay
	}

	ps := g.PlayerStates[requesterID]
	cost, batch, batchColor := playCost(cards, g.BatchPlay, g.BatchColor)
	if ps.AP+ps.TempAP < cost {
		return nil, ErrNotEnoughAP
	}

	// Commit.
	g.Hands[requesterID] = removeFromHand(hand, cards)
	g.DiscardPile = append(g.DiscardPile, cards...)
	g.BatchPlay, g.BatchColor = batch, batchColor
	ps.spendAP(cost)

	player := s.playerByID(requesterID)
	gained := 0
	for _, c := range cards {
		gained += cardFans(c, player.CharacterID, ps.Equipment)
	}
	ps.Fans += gained

	res := &PlayResult{
		Cards:      cards,
		TopCard:    g.TopCard(),
		BatchColor: batchColor,
		APCost:     cost,
		FansGained: gained,
		TotalFans:  ps.Fans,
		Milestones: s.checkMilestones(),
	}
	if winner := s.checkWin(); winner != "" {
		s.Phase = PhaseFinished
		s.Winner = winner
		res.WinnerID = winner
	}
	return res, nil
}

// rollSkillDrop runs the 30% drop: on a hit, one uniformly chosen skill card
// lands in the player's inventory. Callers hold the lock.
func (s *Session) rollSkillDrop(playerID string) SkillID {
	if s.rng.Float64() >= skillDropChance {
		return ""
	}
	id := supportedSkills[s.rng.Intn(len(supportedSkills))]
	s.Game.PlayerStates[playerID].SkillCards[id]++
	return id
}
