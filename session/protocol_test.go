package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetd/cellref"
)

func ref(t *testing.T, s string) cellref.Ref {
	t.Helper()
	r, err := cellref.Parse(s)
	require.NoError(t, err)
	return r
}

func raw(s string) *string { return &s }

func TestHandleSetSingleCell(t *testing.T) {
	s := New()
	a1 := ref(t, "A1")
	reply := s.dispatch(Message{MsgType: MsgSet, Cell: &a1, Raw: raw("5")})
	require.NotNil(t, reply)
	assert.Equal(t, MsgSet, reply.MsgType)
	assert.Equal(t, a1, *reply.Cell)
}

func TestHandleSetMultiCellWrapsBulk(t *testing.T) {
	s := New()
	a1, b1 := ref(t, "A1"), ref(t, "B1")
	s.dispatch(Message{MsgType: MsgSet, Cell: &a1, Raw: raw("1")})
	reply := s.dispatch(Message{MsgType: MsgSet, Cell: &b1, Raw: raw("=A1+1")})
	require.NotNil(t, reply)
	assert.Equal(t, MsgSet, reply.MsgType)

	reply2 := s.dispatch(Message{MsgType: MsgSet, Cell: &a1, Raw: raw("2")})
	require.NotNil(t, reply2)
	assert.Equal(t, MsgBulk, reply2.MsgType)
	assert.Len(t, reply2.BulkMsgs, 2)
}

func TestHandleSetSameRawIsNoReply(t *testing.T) {
	s := New()
	a1 := ref(t, "A1")
	s.dispatch(Message{MsgType: MsgSet, Cell: &a1, Raw: raw("5")})
	reply := s.dispatch(Message{MsgType: MsgSet, Cell: &a1, Raw: raw("5")})
	assert.Nil(t, reply)
}

func TestHandleSetMissingFieldsIsError(t *testing.T) {
	s := New()
	reply := s.dispatch(Message{MsgType: MsgSet})
	require.NotNil(t, reply)
	assert.Equal(t, MsgError, reply.MsgType)
}

func TestHandleEvalDoesNotMutateGrid(t *testing.T) {
	s := New()
	a1 := ref(t, "A1")
	reply := s.dispatch(Message{MsgType: MsgEval, Cell: &a1, Raw: raw("=1+1")})
	require.NotNil(t, reply)
	assert.Equal(t, MsgEval, reply.MsgType)
	require.NotNil(t, reply.Eval)
	assert.True(t, reply.Eval.IsLiteral())
	assert.Equal(t, 2.0, reply.Eval.Literal().Num())

	_, exists := s.Grid.GetCell(a1)
	assert.False(t, exists)
}

func TestDispatchIgnoresUnknownMessageType(t *testing.T) {
	s := New()
	reply := s.dispatch(Message{MsgType: "get"})
	assert.Nil(t, reply)
}

func TestHandleSkipsUnparseableJSON(t *testing.T) {
	s := New()
	reply := s.Handle([]byte("not json"))
	assert.Nil(t, reply)
}

func TestMessageJSONRoundTripsCellField(t *testing.T) {
	a1 := ref(t, "A1")
	msg := Message{MsgType: MsgSet, Cell: &a1, Raw: raw("5")}
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var out Message
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, a1, *out.Cell)
	assert.Equal(t, "5", *out.Raw)
}
