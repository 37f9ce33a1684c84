package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/store"
)

var (
	errUnknownPlayer = errors.New("player is not seated at this table")
	errInvalidData   = errors.New("invalid message data")
)

// handleMessage dispatches one client request. Requests for a table run
// under the store's per-table lock; the resulting state is pushed to every
// connection on that table afterwards.
func (s *Server) handleMessage(c *Connection, msg *Message) {
	s.logger.Debug("received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case MessageJoin:
		s.handleJoin(c, msg)
		return
	case MessageSnapshot:
		if c.TableID() == "" {
			s.sendError(c, msg, CodeNotJoined, "join a table first")
			return
		}
		s.sendState(c)
		return
	case MessageStartHand, MessageAction, MessageGate, MessageCollapse, MessageDealNext, MessageShowdown:
	default:
		s.sendError(c, msg, CodeUnknownMessage, fmt.Sprintf("unknown message type %q", msg.Type))
		return
	}

	tableID, seat := c.TableID(), c.Seat()
	switch {
	case tableID == "":
		s.sendError(c, msg, CodeNotJoined, "join a table first")
		return
	case seat == game.Spectator:
		s.sendError(c, msg, CodeSpectator, "spectators cannot play")
		return
	}

	var (
		replyType MessageType
		reply     any
		hand      *game.HandResult
		changed   = true
	)
	err := s.store.Do(tableID, func(t *game.Table) error {
		switch msg.Type {
		case MessageStartHand:
			if err := t.StartHand(); err != nil {
				return err
			}

		case MessageAction:
			var d ActionData
			if err := json.Unmarshal(msg.Data, &d); err != nil {
				return fmt.Errorf("%w: %v", errInvalidData, err)
			}
			res, err := t.Act(seat, d.Action, d.Amount)
			if err != nil {
				return err
			}
			replyType, reply, hand = MessageActionResult, res, res.Hand

		case MessageGate:
			var d GateData
			if err := json.Unmarshal(msg.Data, &d); err != nil {
				return fmt.Errorf("%w: %v", errInvalidData, err)
			}
			res, err := t.ApplyGate(seat, d.Gate, d.Cards, d.Preview)
			if err != nil {
				return err
			}
			replyType, reply, changed = MessageGateResult, res, !d.Preview

		case MessageCollapse:
			steps, err := t.CollapseCards(seat)
			if err != nil {
				return err
			}
			replyType, reply = MessageCollapseResult, steps

		case MessageDealNext:
			res, err := t.DealNextStreet()
			if err != nil {
				return err
			}
			replyType, reply, hand = MessageStreet, res, res.Hand

		case MessageShowdown:
			res, err := t.ForceShowdown()
			if err != nil {
				return err
			}
			hand = res
		}
		return nil
	})

	switch {
	case errors.Is(err, errInvalidData):
		s.sendError(c, msg, CodeInvalidMessage, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		s.sendError(c, msg, CodeNotFound, err.Error())
		return
	case err != nil:
		category := game.Classify(err)
		if category.Recoverable() {
			s.logger.Warn("request rejected", "type", msg.Type, "seat", seat, "error", err)
		} else {
			s.logger.Error("request failed", "type", msg.Type, "seat", seat, "error", err)
		}
		s.sendError(c, msg, category.String(), err.Error())
		// An aborted hand still changed the table.
		if !category.Recoverable() {
			s.broadcastState(tableID)
		}
		return
	}

	if reply != nil {
		s.reply(c, msg, replyType, reply)
	}
	if hand != nil {
		s.broadcast(tableID, MessageHandResult, hand)
	}
	if changed {
		s.broadcastState(tableID)
	}
}

func (s *Server) handleJoin(c *Connection, msg *Message) {
	var d JoinData
	if err := json.Unmarshal(msg.Data, &d); err != nil {
		s.sendError(c, msg, CodeInvalidMessage, err.Error())
		return
	}

	seat := game.Spectator
	err := s.store.Do(d.TableID, func(t *game.Table) error {
		if d.PlayerID == "" {
			return nil
		}
		if seat = t.SeatIndex(d.PlayerID); seat < 0 {
			return fmt.Errorf("%w: %s", errUnknownPlayer, d.PlayerID)
		}
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sendError(c, msg, CodeNotFound, err.Error())
		return
	case errors.Is(err, errUnknownPlayer):
		s.sendError(c, msg, CodeUnknownPlayer, err.Error())
		return
	case err != nil:
		s.sendError(c, msg, game.Classify(err).String(), err.Error())
		return
	}

	c.join(d.TableID, d.PlayerID, seat)
	s.logger.Info("joined table", "table", d.TableID, "player", d.PlayerID, "seat", seat)
	s.reply(c, msg, MessageJoined, JoinedData{TableID: d.TableID, PlayerID: d.PlayerID, Seat: seat})
	s.sendState(c)
}

// sendState pushes the snapshot as c's viewer sees it.
func (s *Server) sendState(c *Connection) {
	snap, err := s.store.Snapshot(c.TableID(), c.Seat())
	if err != nil {
		s.sendError(c, nil, CodeNotFound, err.Error())
		return
	}
	s.send(c, MessageState, snap, "")
}

func (s *Server) broadcastState(tableID string) {
	s.forTable(tableID, s.sendState)
}

func (s *Server) broadcast(tableID string, messageType MessageType, data any) {
	s.forTable(tableID, func(c *Connection) {
		s.send(c, messageType, data, "")
	})
}

func (s *Server) reply(c *Connection, req *Message, messageType MessageType, data any) {
	s.send(c, messageType, data, req.RequestID)
}

func (s *Server) sendError(c *Connection, req *Message, code, message string) {
	requestID := ""
	if req != nil {
		requestID = req.RequestID
	}
	s.send(c, MessageError, ErrorData{Code: code, Message: message}, requestID)
}

func (s *Server) send(c *Connection, messageType MessageType, data any, requestID string) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("failed to encode message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	if err := c.Send(msg); err != nil {
		s.logger.Debug("dropped message", "type", messageType, "player", c.PlayerID(), "error", err)
	}
}
