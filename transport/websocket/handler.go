package websocket

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/life-maze/game/room"
)

const (
	defaultPlayerName  = "Player"
	defaultCharacterID = 1
)

// handleFrame decodes and dispatches one client message on the hub loop.
func (h *Hub) handleFrame(client *Client, data []byte) {
	// frames can still be queued when the disconnect wins the select
	if client.closed {
		return
	}

	msg, err := Decode(data)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"conn_id": client.id,
			"bytes":   len(data),
		}).WithError(err).Warn("Dropping message")
		return
	}

	if join, ok := msg.(Join); ok {
		h.handleJoin(client, join)
		return
	}

	// everything else needs a bound player
	if !client.bound() {
		h.log.WithField("conn_id", client.id).Debugf("Ignoring %T from unbound connection", msg)
		return
	}

	switch m := msg.(type) {
	case Ready:
		h.handleReady(client)
	case StartGame:
		h.rooms.StartGame(client.roomID)
	case PlayerUpdate:
		h.handlePlayerUpdate(client, m)
	case PlayerLevelUp:
		h.handleLevelUp(client, m)
	case PlayerFinished:
		h.handleFinished(client, m)
	default:
		h.log.Errorf("unhandled inbound message %T", m)
	}
}

func (h *Hub) handleJoin(client *Client, msg Join) {
	if client.bound() {
		h.reply(client, newError(fmt.Sprintf("already joined room %s", client.roomID)))
		return
	}

	if err := h.validate.Struct(msg); err != nil {
		h.reply(client, newError(joinValidationMessage(err)))
		return
	}

	spec := room.PlayerSpec{
		ID:          lo.Ternary(msg.PlayerID != "", msg.PlayerID, room.NewPlayerID()),
		Name:        lo.Ternary(msg.PlayerName != "", msg.PlayerName, defaultPlayerName),
		CharacterID: lo.Ternary(msg.CharacterID != 0, msg.CharacterID, defaultCharacterID),
		Color:       msg.Color,
	}

	r := h.rooms.EnsureRoom(msg.RoomID)
	if _, err := h.rooms.TryAddPlayer(r.ID, spec); err != nil {
		h.log.WithFields(logrus.Fields{
			"conn_id":   client.id,
			"room_id":   r.ID,
			"player_id": spec.ID,
		}).WithError(err).Info("Join rejected")
		h.reply(client, newError(joinErrorMessage(err)))
		return
	}

	h.bind(client, r.ID, spec.ID)
	h.broadcast(r.ID, newRoster(TypeJoined, spec.ID, r.Players), "")
}

func (h *Hub) handleReady(client *Client) {
	if !h.rooms.SetReady(client.roomID, client.playerID) {
		return
	}
	if r, ok := h.rooms.Room(client.roomID); ok {
		h.broadcast(r.ID, newRoster(TypePlayerReady, client.playerID, r.Players), "")
	}
}

func (h *Hub) handlePlayerUpdate(client *Client, msg PlayerUpdate) {
	p, ok := h.rooms.Player(client.roomID, client.playerID)
	if !ok {
		return
	}

	h.log.WithFields(logrus.Fields{
		"room_id":   client.roomID,
		"player_id": p.ID,
		"level":     msg.Level,
	}).Debug("Position update")

	h.broadcast(client.roomID, PlayerUpdateMessage{
		Type:        TypePlayerUpdate,
		PlayerID:    p.ID,
		Position:    msg.Position,
		Level:       msg.Level,
		Name:        p.Name,
		CharacterID: p.CharacterID,
		Color:       p.Color,
	}, p.ID)
}

func (h *Hub) handleLevelUp(client *Client, msg PlayerLevelUp) {
	if !h.rooms.UpdateProgress(client.roomID, client.playerID, &msg.Level, nil) {
		return
	}
	h.broadcast(client.roomID, LevelUpMessage{
		Type:     TypePlayerLevelUp,
		PlayerID: client.playerID,
		Level:    msg.Level,
	}, "")
}

func (h *Hub) handleFinished(client *Client, msg PlayerFinished) {
	if !h.rooms.UpdateProgress(client.roomID, client.playerID, nil, &msg.Time) {
		return
	}

	h.log.WithFields(logrus.Fields{
		"room_id":   client.roomID,
		"player_id": client.playerID,
		"time":      msg.Time,
	}).Info("Player finished")

	h.broadcast(client.roomID, FinishedMessage{
		Type:        TypePlayerFinished,
		Leaderboard: h.rooms.Leaderboard(client.roomID),
	}, "")
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomFull):
		return fmt.Sprintf("Room is full (max %d players)", room.MaxPlayers)
	case errors.Is(err, room.ErrColorTaken):
		return "That color has already been chosen"
	case errors.Is(err, room.ErrGameInProgress):
		return "Game already in progress"
	case errors.Is(err, room.ErrPlayerExists):
		return "Player id already in room"
	default:
		return err.Error()
	}
}

func joinValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid join request"
	}
	return "invalid join request: " + lo.Reduce(verrs, func(acc string, item validator.FieldError, i int) string {
		if i > 0 {
			acc += ", "
		}
		return acc + item.Field() + " failed " + item.Tag()
	}, "")
}
