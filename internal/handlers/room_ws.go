// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/auth"
	"floatbridge/internal/game"
	"floatbridge/internal/models"
)

// ActionMessage is the envelope for every inbound client message. Fields
// beyond Type are used per action; unused ones are simply absent.
type ActionMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Ready  *bool  `json:"ready,omitempty"`
	TurnMs int64  `json:"turnMs,omitempty"`
	Level  int    `json:"level,omitempty"`
	Suit   string `json:"suit,omitempty"`
	Card   string `json:"card,omitempty"`
	Msg    string `json:"msg,omitempty"`
}

// RoomWSHandler upgrades the connection, establishes a guest identity and
// runs the read loop routing actions into the engine.
func RoomWSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Identity first: the session cookie must be written before the
		// connection is hijacked by the upgrade.
		userID, err := ensureGuest(w, r)
		if err != nil {
			logger.Warnf("guest session setup failed: %v", err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"bridge"},
			OriginPatterns: []string{"*"}, // Adjust in production.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "bridge" {
			c.Close(BadSubprotocolError, "client must speak the bridge subprotocol")
			return
		}

		logger.Infof("user %s connected from %s", userID, r.RemoteAddr)
		s.registerConn(userID, c)

		// Greet with the current open-rooms directory.
		s.sendEvent(c, game.Event{Type: game.EventRoomsList, Payload: map[string]interface{}{
			"rooms": s.Rooms.ListOpenRooms(),
		}})

		joinedCode, created := readActionLoop(r.Context(), c, s, userID, logger)

		// Cleanup: a departure mid-deal abandons the deal for the room, and
		// rooms this client created but nobody ever joined are destroyed.
		s.unregisterConn(userID)
		if joinedCode != "" {
			s.Rooms.Leave(joinedCode, userID)
		}
		for _, code := range created {
			s.Rooms.DestroyIfEmpty(code)
		}
		logger.Infof("user %s disconnected", userID)
	}
}

// readActionLoop reads and routes messages until the connection dies.
// Returns the code of the room the actor occupies, if any, plus the codes of
// every room they created.
func readActionLoop(ctx context.Context, c *websocket.Conn, s *Server, userID uuid.UUID, logger *logrus.Logger) (string, []string) {
	joinedCode := ""
	joinedName := ""
	var created []string

	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for user %s", userID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("websocket context canceled for user %s", userID)
			} else {
				logger.Warnf("read error for user %s: %v", userID, err)
			}
			return joinedCode, created
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg ActionMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid json from user %s: %v", userID, err)
			s.sendError(c, "invalid JSON format")
			continue
		}

		switch msg.Type {
		case "create_room":
			room, err := s.Rooms.CreateRoom(userID, msg.Name)
			if err != nil {
				s.sendError(c, err.Error())
				continue
			}
			s.bindRoom(room)
			created = append(created, room.Code)
			s.sendEvent(c, game.Event{Type: game.EventRoomCreated, Payload: map[string]interface{}{
				"code": room.Code,
			}})

		case "join_room":
			if joinedCode != "" {
				s.sendError(c, "already seated in a room")
				continue
			}
			room, player, err := s.Rooms.JoinRoom(msg.Code, userID, msg.Name, c)
			if err != nil {
				s.sendError(c, err.Error())
				continue
			}
			joinedCode = room.Code
			joinedName = player.Name

		case "ready":
			if msg.Ready == nil {
				s.sendError(c, "missing ready flag")
				continue
			}
			s.Rooms.SetReady(msg.Code, userID, *msg.Ready)

		case "start_game":
			err := s.Rooms.StartGame(msg.Code, userID, msg.TurnMs)
			ack := map[string]interface{}{"ok": err == nil}
			if err != nil {
				ack["reason"] = err.Error()
			}
			s.sendEvent(c, game.Event{Type: game.EventStartAck, Payload: ack})

		case "bid":
			room, ok := s.Rooms.GetRoom(msg.Code)
			if !ok {
				s.sendError(c, fmt.Sprintf("room %s not found", msg.Code))
				continue
			}
			bid, err := parseBid(msg.Level, msg.Suit)
			if err != nil {
				s.sendError(c, err.Error())
				continue
			}
			room.HandleBid(userID, bid)

		case "call_card":
			room, ok := s.Rooms.GetRoom(msg.Code)
			if !ok {
				s.sendError(c, fmt.Sprintf("room %s not found", msg.Code))
				continue
			}
			card, err := models.ParseCard(msg.Card)
			if err != nil {
				s.sendError(c, err.Error())
				continue
			}
			room.HandleCallCard(userID, card)

		case "play_card":
			room, ok := s.Rooms.GetRoom(msg.Code)
			if !ok {
				s.sendError(c, fmt.Sprintf("room %s not found", msg.Code))
				continue
			}
			card, err := models.ParseCard(msg.Card)
			if err != nil {
				s.sendError(c, err.Error())
				continue
			}
			room.HandlePlayCard(userID, card)

		case "chat":
			room, ok := s.Rooms.GetRoom(msg.Code)
			if !ok || msg.Msg == "" {
				continue
			}
			room.Mu.Lock()
			if room.PlayerByID(userID) != nil {
				room.BroadcastChat(joinedName, msg.Msg)
			}
			room.Mu.Unlock()

		default:
			logger.Warnf("unknown action %q from user %s", msg.Type, userID)
			s.sendError(c, fmt.Sprintf("unknown action type: %s", msg.Type))
		}
	}
}

// parseBid converts the wire form to a bid; level 0 or a missing suit is a
// pass, returned as nil.
func parseBid(level int, suit string) (*models.Bid, error) {
	if level == 0 || suit == "" {
		return nil, nil
	}
	bs, err := models.ParseBidSuit(suit)
	if err != nil {
		return nil, err
	}
	return &models.Bid{Level: level, Suit: bs}, nil
}

// sendError reports a validation failure to the offending connection only.
func (s *Server) sendError(c *websocket.Conn, msg string) {
	s.sendEvent(c, game.Event{Type: game.EventError, Payload: map[string]interface{}{
		"message": msg,
	}})
}

// ensureGuest authenticates the auth_token cookie, or mints a fresh guest
// session and sets the cookie when the token is absent or invalid.
func ensureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		if id, err := auth.AuthenticateJWT(cookie.Value); err == nil {
			return id, nil
		}
	}

	id, token, err := auth.NewGuestSession()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create guest session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}
