package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
	"github.com/timosw/fanclash/internal/config"
	"github.com/timosw/fanclash/internal/game"
)

// ConnCtx is the per-connection state: which room the socket sits in. The
// connection id itself doubles as the player id everywhere.
type ConnCtx struct {
	Code string
}

type Server struct {
	RM     *game.RoomManager
	config config.Config

	mu      sync.RWMutex
	conns   map[string]socketio.Conn            // socketID -> Conn
	members map[string]map[string]socketio.Conn // roomCode -> socketID -> Conn
}

func New(rm *game.RoomManager, cfg config.Config) *Server {
	return &Server{
		RM:      rm,
		config:  cfg,
		conns:   make(map[string]socketio.Conn),
		members: make(map[string]map[string]socketio.Conn),
	}
}

// Mount attaches the Socket.IO server with all game handlers to the given
// Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		srv.addConn(s)
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// create_room
	io.OnEvent("/", "create_room", func(s socketio.Conn, payload struct {
		PlayerName  string `json:"playerName"`
		CharacterID int    `json:"characterId"`
		MaxPlayers  int    `json:"maxPlayers"`
	}) map[string]any {
		sess := srv.RM.CreateRoom(s.ID(), payload.PlayerName, payload.CharacterID, payload.MaxPlayers)
		s.SetContext(&ConnCtx{Code: sess.Code})
		s.Join(sess.Code)
		srv.addMember(sess.Code, s)
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Str("name", payload.PlayerName).Msg("create_room")
		return map[string]any{"success": true, "roomId": sess.Code}
	})

	// join_room
	io.OnEvent("/", "join_room", func(s socketio.Conn, payload struct {
		RoomID      string `json:"roomId"`
		PlayerName  string `json:"playerName"`
		CharacterID int    `json:"characterId"`
	}) map[string]any {
		sess, err := srv.RM.JoinRoom(payload.RoomID, s.ID(), payload.PlayerName, payload.CharacterID)
		if err != nil {
			return srv.fail(s, err)
		}
		s.SetContext(&ConnCtx{Code: sess.Code})
		s.Join(sess.Code)
		srv.addMember(sess.Code, s)
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Str("name", payload.PlayerName).Msg("join_room")
		io.BroadcastToRoom("/", sess.Code, "player_joined", map[string]any{
			"playerId":    s.ID(),
			"playerName":  payload.PlayerName,
			"characterId": payload.CharacterID,
		})
		return map[string]any{"success": true, "roomId": sess.Code}
	})

	// start_game
	io.OnEvent("/", "start_game", func(s socketio.Conn) map[string]any {
		sess, err := srv.sessionOf(s)
		if err != nil {
			return srv.fail(s, err)
		}
		res, err := sess.Start(s.ID())
		if err != nil {
			return srv.fail(s, err)
		}
		snap := sess.Snapshot()
		log.Info().Str("code", snap.Code).Str("gameId", res.GameID).Int("seed", res.Seed).Msg("start_game")
		io.BroadcastToRoom("/", snap.Code, "game_started", map[string]any{
			"gameId":          res.GameID,
			"seed":            res.Seed,
			"topCard":         res.TopCard,
			"currentPlayerId": res.CurrentPlayerID,
			"players":         snap.Players,
		})
		for id, hand := range res.Hands {
			srv.sendToConnection(id, "receive_hand", map[string]any{"cards": hand})
		}
		return map[string]any{"success": true, "gameId": res.GameID}
	})

	// end_turn
	io.OnEvent("/", "end_turn", func(s socketio.Conn) map[string]any {
		sess, err := srv.sessionOf(s)
		if err != nil {
			return srv.fail(s, err)
		}
		res, err := sess.EndTurn(s.ID())
		if err != nil {
			return srv.fail(s, err)
		}
		srv.emitTurn(io, sess.Code, res)
		return map[string]any{"success": true, "currentPlayerId": res.CurrentPlayerID}
	})

	// draw_card
	io.OnEvent("/", "draw_card", func(s socketio.Conn) map[string]any {
		sess, err := srv.sessionOf(s)
		if err != nil {
			return srv.fail(s, err)
		}
		res, err := sess.DrawCard(s.ID())
		if err != nil {
			return srv.fail(s, err)
		}
		srv.broadcastToRoomExcept(sess.Code, s.ID(), "opponent_card_drawn", map[string]any{
			"playerId": s.ID(),
			"count":    1,
		})
		if res.SkillDrop != "" {
			s.Emit("skill_card_received", map[string]any{"skillId": res.SkillDrop})
		}
		return map[string]any{"success": true, "card": res.Card, "apRemaining": res.APRemaining}
	})

	// play_cards
	io.OnEvent("/", "play_cards", func(s socketio.Conn, payload struct {
		Cards []game.Card `json:"cards"`
	}) map[string]any {
		sess, err := srv.sessionOf(s)
		if err != nil {
			return srv.fail(s, err)
		}
		res, err := sess.PlayCards(s.ID(), payload.Cards)
		if err != nil {
			return srv.fail(s, err)
		}
		log.Info().Str("code", sess.Code).Str("playerId", s.ID()).Int("cards", len(res.Cards)).Int("fans", res.TotalFans).Msg("play_cards")
		io.BroadcastToRoom("/", sess.Code, "cards_played", map[string]any{
			"playerId":   s.ID(),
			"cards":      res.Cards,
			"topCard":    res.TopCard,
			"batchColor": res.BatchColor,
			"fansGained": res.FansGained,
			"fans":       res.TotalFans,
		})
		for _, m := range res.Milestones {
			io.BroadcastToRoom("/", sess.Code, "milestone_reached", map[string]any{"milestone": m})
		}
		if res.WinnerID != "" {
			log.Info().Str("code", sess.Code).Str("winnerId", res.WinnerID).Msg("game over")
			io.BroadcastToRoom("/", sess.Code, "game_over", map[string]any{"winnerId": res.WinnerID})
		}
		return map[string]any{"success": true, "fansGained": res.FansGained, "apCost": res.APCost}
	})

	// use_skill_card
	io.OnEvent("/", "use_skill_card", func(s socketio.Conn, payload struct {
		SkillID string `json:"skillId"`
	}) map[string]any {
		sess, err := srv.sessionOf(s)
		if err != nil {
			return srv.fail(s, err)
		}
		res, err := sess.UseSkill(s.ID(), game.SkillID(payload.SkillID))
		if err != nil {
			return srv.fail(s, err)
		}
		log.Info().Str("code", sess.Code).Str("playerId", s.ID()).Str("skillId", string(res.Skill)).Msg("use_skill_card")
		io.BroadcastToRoom("/", sess.Code, "skill_card_used", map[string]any{
			"playerId": s.ID(),
			"skillId":  res.Skill,
			"effect":   res.Payload,
		})
		return map[string]any{"success": true}
	})

	// signal: WebRTC signaling relay, pure forwarding.
	io.OnEvent("/", "signal", func(s socketio.Conn, payload struct {
		TargetID string `json:"targetId"`
		Type     string `json:"type"`
		Payload  any    `json:"payload"`
	}) {
		srv.sendToConnection(payload.TargetID, "signal", map[string]any{
			"senderId": s.ID(),
			"type":     payload.Type,
			"payload":  payload.Payload,
		})
	})

	// broadcast_game_event: opaque payload to everyone else in the room.
	io.OnEvent("/", "broadcast_game_event", func(s socketio.Conn, data any) {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx == nil || ctx.Code == "" {
			return
		}
		srv.broadcastToRoomExcept(ctx.Code, s.ID(), "game_event", map[string]any{
			"senderId": s.ID(),
			"payload":  data,
		})
	})

	// send_game_event: opaque payload to one connection.
	io.OnEvent("/", "send_game_event", func(s socketio.Conn, payload struct {
		TargetID string `json:"targetId"`
		Data     any    `json:"data"`
	}) {
		srv.sendToConnection(payload.TargetID, "game_event", map[string]any{
			"senderId": s.ID(),
			"payload":  payload.Data,
		})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.removeConn(s)
		out, ok := srv.RM.Leave(s.ID())
		if ok {
			srv.removeMember(out.Code, s)
			io.BroadcastToRoom("/", out.Code, "player_left", map[string]any{"playerId": s.ID()})
			if out.NewHostID != "" {
				srv.sendToConnection(out.NewHostID, "you_are_host", map[string]any{})
				io.BroadcastToRoom("/", out.Code, "host_changed", map[string]any{"newHostId": out.NewHostID})
				log.Info().Str("code", out.Code).Str("newHostId", out.NewHostID).Msg("host changed")
			}
			if out.Turn != nil {
				srv.emitTurn(io, out.Code, out.Turn)
			}
			if out.Destroyed {
				srv.dropRoom(out.Code)
				log.Info().Str("code", out.Code).Msg("room destroyed")
			}
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// emitTurn announces a turn handover: the public rotation, the private
// start-of-turn draw, the public draw count, and any skill drop.
func (srv *Server) emitTurn(io *socketio.Server, code string, res *game.TurnResult) {
	io.BroadcastToRoom("/", code, "turn_changed", map[string]any{"currentPlayerId": res.CurrentPlayerID})
	if len(res.Drawn) > 0 {
		srv.sendToConnection(res.CurrentPlayerID, "cards_drawn_on_turn_start", map[string]any{"cards": res.Drawn})
		srv.broadcastToRoomExcept(code, res.CurrentPlayerID, "opponent_card_drawn", map[string]any{
			"playerId": res.CurrentPlayerID,
			"count":    len(res.Drawn),
		})
	}
	if res.SkillDrop != "" {
		srv.sendToConnection(res.CurrentPlayerID, "skill_card_received", map[string]any{"skillId": res.SkillDrop})
	}
}

func (srv *Server) sessionOf(s socketio.Conn) (*game.Session, error) {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.Code == "" {
		return nil, game.ErrNotInRoom
	}
	return srv.RM.Lookup(ctx.Code)
}

// fail reports a rejection to the acting connection only; rejected actions
// never broadcast.
func (srv *Server) fail(s socketio.Conn, err error) map[string]any {
	code := game.Code(err)
	s.Emit("error", map[string]any{"code": code, "kind": game.KindOf(err), "message": err.Error()})
	return map[string]any{"success": false, "error": code}
}

func (srv *Server) addConn(c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.conns[c.ID()] = c
}

func (srv *Server) removeConn(c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.conns, c.ID())
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
	}
}

func (srv *Server) dropRoom(code string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.members, code)
}

// sendToConnection unicasts to a connection anywhere on the server.
func (srv *Server) sendToConnection(connID, event string, payload any) {
	srv.mu.RLock()
	c := srv.conns[connID]
	srv.mu.RUnlock()
	if c != nil {
		c.Emit(event, payload)
	}
}

func (srv *Server) broadcastToRoomExcept(code, excludeID, event string, payload any) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for id, c := range srv.members[code] {
		if id == excludeID {
			continue
		}
		c.Emit(event, payload)
	}
}
