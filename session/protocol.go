// Package session implements the per-connection message protocol: each
// session owns one grid.Grid exclusively and processes incoming messages
// to completion, in order, before reading the next.
package session

import (
	"encoding/json"

	"sheetd/cellref"
	"sheetd/grid"
	"sheetd/value"
)

// MsgType tags a Message's role on the wire.
type MsgType string

const (
	MsgSet   MsgType = "set"
	MsgEval  MsgType = "eval"
	MsgGet   MsgType = "get"
	MsgError MsgType = "error"
	MsgBulk  MsgType = "bulk"
)

// EvalConfig is advisory in this core; its fields are accepted but ignored.
type EvalConfig struct {
	DoPropagation    bool `json:"do_propagation"`
	ForcePropagation bool `json:"force_propagation"`
}

// Message is the wire envelope for every request and reply.
type Message struct {
	MsgType    MsgType      `json:"msg_type"`
	Cell       *cellref.Ref `json:"cell,omitempty"`
	Raw        *string      `json:"raw,omitempty"`
	Eval       *value.Eval  `json:"eval,omitempty"`
	EvalConfig *EvalConfig  `json:"eval_config,omitempty"`
	BulkMsgs   []Message    `json:"bulk_msgs,omitempty"`
}

// Session owns one grid for the lifetime of one connection.
type Session struct {
	Grid *grid.Grid
}

func New() *Session {
	return &Session{Grid: grid.New()}
}

// Handle dispatches one incoming message and returns the reply to send, or
// nil if the message type is ignored, unparseable content was skipped, or a
// set changed no cell.
func (s *Session) Handle(raw []byte) *Message {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	return s.dispatch(msg)
}

func (s *Session) dispatch(msg Message) *Message {
	switch msg.MsgType {
	case MsgSet:
		return s.handleSet(msg)
	case MsgEval:
		return s.handleEval(msg)
	default:
		return nil
	}
}

func (s *Session) handleSet(msg Message) *Message {
	if msg.Cell == nil || msg.Raw == nil {
		return errorReply(msg.Cell, "set requires cell and raw")
	}

	changed := s.Grid.UpdateCell(*msg.Cell, *msg.Raw)
	if len(changed) == 0 {
		return nil
	}

	replies := make([]Message, 0, len(changed))
	for _, ref := range changed {
		c, ok := s.Grid.GetCell(ref)
		if !ok {
			continue
		}
		replies = append(replies, setReply(ref, c.Raw, c.Eval))
	}

	if len(replies) == 1 {
		return &replies[0]
	}
	return &Message{MsgType: MsgBulk, BulkMsgs: replies}
}

func (s *Session) handleEval(msg Message) *Message {
	if msg.Cell == nil || msg.Raw == nil {
		return errorReply(msg.Cell, "eval requires cell and raw")
	}
	e := s.Grid.QuickEval(*msg.Raw)
	reply := setReply(*msg.Cell, *msg.Raw, e)
	reply.MsgType = MsgEval
	return &reply
}

func setReply(ref cellref.Ref, raw string, e value.Eval) Message {
	r := ref
	rawCopy := raw
	return Message{MsgType: MsgSet, Cell: &r, Raw: &rawCopy, Eval: &e}
}

func errorReply(ref *cellref.Ref, text string) *Message {
	rawCopy := text
	return &Message{MsgType: MsgError, Cell: ref, Raw: &rawCopy}
}
