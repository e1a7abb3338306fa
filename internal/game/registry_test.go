package game

import (
	"fmt"
	"testing"
)

func TestCreateRoom(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("conn-1", "Alice", 1, 4)
	if len(s.Code) != roomCodeLength {
		t.Fatalf("expected %d-char room code, got %q", roomCodeLength, s.Code)
	}
	if s.HostID != "conn-1" {
		t.Fatalf("creator should be host, got %s", s.HostID)
	}
	snap := s.Snapshot()
	if len(snap.Players) != 1 || !snap.Players[0].IsHost {
		t.Fatalf("expected a single host player, got %+v", snap.Players)
	}
	if snap.MaxPlayers != 4 {
		t.Fatalf("expected maxPlayers 4, got %d", snap.MaxPlayers)
	}

	got, err := rm.Lookup(s.Code)
	if err != nil || got != s {
		t.Fatalf("lookup should return the created session: %v", err)
	}
	got, err = rm.RoomOf("conn-1")
	if err != nil || got != s {
		t.Fatalf("RoomOf should resolve the creator: %v", err)
	}
}

func TestCreateRoomClampsMaxPlayers(t *testing.T) {
	rm := NewRoomManager(10)
	if s := rm.CreateRoom("a", "Alice", 1, 0); s.MaxPlayers != 10 {
		t.Fatalf("expected cap fallback, got %d", s.MaxPlayers)
	}
	if s := rm.CreateRoom("b", "Bob", 1, 99); s.MaxPlayers != 10 {
		t.Fatalf("expected cap enforced, got %d", s.MaxPlayers)
	}
}

func TestRoomCodesUnique(t *testing.T) {
	rm := NewRoomManager(10)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := rm.CreateRoom(fmt.Sprintf("conn-%d", i), "Player", 1, 4)
		if seen[s.Code] {
			t.Fatalf("duplicate room code %s", s.Code)
		}
		seen[s.Code] = true
	}
	if rm.RoomCount() != 200 {
		t.Fatalf("expected 200 live rooms, got %d", rm.RoomCount())
	}
}

func TestJoinRoomCaseInsensitive(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)

	joined, err := rm.JoinRoom("  "+lower(s.Code)+" ", "guest", "Bob", 2)
	if err != nil {
		t.Fatalf("lower-case code should resolve: %v", err)
	}
	if joined != s {
		t.Fatal("join resolved a different session")
	}
	if len(s.Snapshot().Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(s.Snapshot().Players))
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func TestJoinRoomErrors(t *testing.T) {
	rm := NewRoomManager(10)
	if _, err := rm.JoinRoom("NOPE99", "x", "Bob", 1); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	s := rm.CreateRoom("host", "Alice", 1, 2)
	if _, err := rm.JoinRoom(s.Code, "g1", "Bob", 2); err != nil {
		t.Fatalf("join should succeed: %v", err)
	}
	if _, err := rm.JoinRoom(s.Code, "g2", "Carol", 3); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)
	if _, err := rm.JoinRoom(s.Code, "g1", "Bob", 2); err != nil {
		t.Fatalf("join should succeed: %v", err)
	}
	if _, err := s.Start("host"); err != nil {
		t.Fatalf("start should succeed: %v", err)
	}
	if _, err := rm.JoinRoom(s.Code, "g2", "Carol", 3); err != ErrGameAlreadyStarted {
		t.Fatalf("expected ErrGameAlreadyStarted, got %v", err)
	}
}

func TestLeavePromotesNewHost(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)
	rm.JoinRoom(s.Code, "g1", "Bob", 2)
	rm.JoinRoom(s.Code, "g2", "Carol", 3)

	out, ok := rm.Leave("host")
	if !ok {
		t.Fatal("leave should report an outcome")
	}
	if out.NewHostID != "g1" {
		t.Fatalf("expected g1 promoted, got %s", out.NewHostID)
	}
	if out.Destroyed {
		t.Fatal("room with members must not be destroyed")
	}

	hosts := 0
	for _, p := range s.Snapshot().Players {
		if p.IsHost {
			hosts++
		}
	}
	if hosts != 1 {
		t.Fatalf("expected exactly one host, got %d", hosts)
	}
	if s.HostID != "g1" {
		t.Fatalf("expected HostID g1, got %s", s.HostID)
	}
}

func TestLeaveDestroysEmptyRoom(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)

	out, ok := rm.Leave("host")
	if !ok || !out.Destroyed {
		t.Fatalf("expected destroyed outcome, got %+v (%v)", out, ok)
	}
	if _, err := rm.Lookup(s.Code); err != ErrRoomNotFound {
		t.Fatalf("destroyed room should not resolve, got %v", err)
	}
	if rm.RoomCount() != 0 {
		t.Fatalf("expected no live rooms, got %d", rm.RoomCount())
	}
}

func TestLeaveIsIdempotentPerConnection(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)
	rm.JoinRoom(s.Code, "g1", "Bob", 2)

	if _, ok := rm.Leave("g1"); !ok {
		t.Fatal("first leave should take effect")
	}
	if _, ok := rm.Leave("g1"); ok {
		t.Fatal("second leave must be a no-op")
	}
	if _, ok := rm.Leave("stranger"); ok {
		t.Fatal("unknown connection must be a no-op")
	}
}

func TestLeaveOfCurrentPlayerAdvancesTurn(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)
	rm.JoinRoom(s.Code, "g1", "Bob", 2)
	rm.JoinRoom(s.Code, "g2", "Carol", 3)
	if _, err := s.Start("host"); err != nil {
		t.Fatalf("start should succeed: %v", err)
	}
	if s.Game.CurrentPlayerID != "host" {
		t.Fatalf("expected host to open, got %s", s.Game.CurrentPlayerID)
	}

	out, ok := rm.Leave("host")
	if !ok {
		t.Fatal("leave should report an outcome")
	}
	if out.Turn == nil {
		t.Fatal("departure of the current player should hand the turn on")
	}
	// Reverse roster order: host's successor is g2.
	if out.Turn.CurrentPlayerID != "g2" {
		t.Fatalf("expected turn at g2, got %s", out.Turn.CurrentPlayerID)
	}
	if s.Game.CurrentPlayerID != "g2" {
		t.Fatalf("session disagrees: %s", s.Game.CurrentPlayerID)
	}
	// The departed hand went back under the deck; nothing vanished.
	if totalCards(s.Game) != DeckSize {
		t.Fatalf("card count drifted to %d", totalCards(s.Game))
	}
	if _, ok := s.Game.Hands["host"]; ok {
		t.Fatal("departed player's hand should be gone")
	}
}

func TestLeaveMidGameKeepsRemainingHands(t *testing.T) {
	rm := NewRoomManager(10)
	s := rm.CreateRoom("host", "Alice", 1, 4)
	rm.JoinRoom(s.Code, "g1", "Bob", 2)
	rm.JoinRoom(s.Code, "g2", "Carol", 3)
	s.Start("host")

	rm.Leave("g1") // not the current player
	if s.Game.CurrentPlayerID != "host" {
		t.Fatalf("turn should be untouched, got %s", s.Game.CurrentPlayerID)
	}
	if len(s.Game.Hands["host"]) != startingHandSize || len(s.Game.Hands["g2"]) != startingHandSize {
		t.Fatal("remaining hands should be untouched")
	}
	if totalCards(s.Game) != DeckSize {
		t.Fatalf("card count drifted to %d", totalCards(s.Game))
	}
}
