package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const roomCodeLength = 6

// RoomManager owns the two lookup maps of the server: room code to session
// and connection id to room code. Codes are stored upper-case; lookups
// normalize their input. It holds no cross-session state, so sessions stay
// independently lockable.
type RoomManager struct {
	mu            sync.RWMutex
	rooms         map[string]*Session
	byConn        map[string]string
	maxPlayersCap int
}

func NewRoomManager(maxPlayersCap int) *RoomManager {
	return &RoomManager{
		rooms:         make(map[string]*Session),
		byConn:        make(map[string]string),
		maxPlayersCap: maxPlayersCap,
	}
}

// NormalizeCode canonicalizes a room code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom always succeeds; the code is regenerated until it is free among
// live sessions, so codes are unique.
func (rm *RoomManager) CreateRoom(connID, name string, characterID, maxPlayers int) *Session {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if maxPlayers <= 0 || maxPlayers > rm.maxPlayersCap {
		maxPlayers = rm.maxPlayersCap
	}
	code := randomCode(roomCodeLength)
	for rm.rooms[code] != nil {
		code = randomCode(roomCodeLength)
	}

	host := Player{ConnectionID: connID, Name: name, CharacterID: characterID}
	s := NewSession(code, maxPlayers, host, rand.New(rand.NewSource(time.Now().UnixNano())))
	rm.rooms[code] = s
	rm.byConn[connID] = code
	return s
}

// JoinRoom adds a connection to an existing lobby.
func (rm *RoomManager) JoinRoom(code, connID, name string, characterID int) (*Session, error) {
	code = NormalizeCode(code)
	rm.mu.Lock()
	defer rm.mu.Unlock()

	s := rm.rooms[code]
	if s == nil {
		return nil, ErrRoomNotFound
	}
	p := &Player{ConnectionID: connID, Name: name, CharacterID: characterID}
	if err := s.addPlayer(p); err != nil {
		return nil, err
	}
	rm.byConn[connID] = code
	return s, nil
}

// Lookup resolves a room code to its live session.
func (rm *RoomManager) Lookup(code string) (*Session, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	s := rm.rooms[NormalizeCode(code)]
	if s == nil {
		return nil, ErrRoomNotFound
	}
	return s, nil
}

// RoomOf resolves a connection id to the session it currently sits in.
func (rm *RoomManager) RoomOf(connID string) (*Session, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	code, ok := rm.byConn[connID]
	if !ok {
		return nil, ErrNotInRoom
	}
	s := rm.rooms[code]
	if s == nil {
		return nil, ErrRoomNotFound
	}
	return s, nil
}

// Leave removes a connection from its room, executing at most once per
// connection: the byConn entry is the guard. The second return is false when
// the connection was not in any room.
func (rm *RoomManager) Leave(connID string) (*LeaveOutcome, bool) {
	// Held across the roster mutation so a join cannot race a teardown;
	// lock order is registry before session, as in JoinRoom.
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code, ok := rm.byConn[connID]
	if !ok {
		return nil, false
	}
	delete(rm.byConn, connID)
	s := rm.rooms[code]
	if s == nil {
		return nil, false
	}

	out := s.removePlayer(connID)
	if out == nil {
		return nil, false
	}
	if out.Destroyed {
		delete(rm.rooms, code)
	}
	return out, true
}

// RoomCount reports the number of live sessions.
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
