package ipc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimod/kimod/internal/coord"
)

func TestToUTF16ColumnASCII(t *testing.T) {
	assert.Equal(t, 5, ToUTF16Column("hello world", 5))
}

func TestToUTF16ColumnAstralPlane(t *testing.T) {
	line := "a\U0001F600b" // emoji costs two UTF-16 units
	assert.Equal(t, 1, ToUTF16Column(line, 1))
	assert.Equal(t, 3, ToUTF16Column(line, 2))
	assert.Equal(t, 4, ToUTF16Column(line, 3))
}

func TestFromUTF16ColumnRoundTrips(t *testing.T) {
	line := "a\U0001F600b"
	for charCol := 0; charCol <= 3; charCol++ {
		units := ToUTF16Column(line, charCol)
		assert.Equal(t, charCol, FromUTF16Column(line, units))
	}
}

func TestWirePositionRoundTrips(t *testing.T) {
	content := "one\ntwo \U0001F600 three\n"
	p := coord.Position{Line: 1, Column: 5}
	line, col := ToWirePosition(content, p)
	back := FromWirePosition(content, line, col)
	assert.Equal(t, p, back)
}

func TestBufferOpenParamsMarshal(t *testing.T) {
	p := BufferOpenParams{
		URI:     "file:///a.go",
		Content: "package a\n",
		Selections: []WireSelection{
			{StartChar: 0, EndChar: 0, Cursor: "end"},
		},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded BufferOpenParams
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestServeStdioRoundTrip(t *testing.T) {
	serverIn, clientOut := net.Pipe()
	clientIn, serverOut := net.Pipe()
	defer serverIn.Close()
	defer clientOut.Close()
	defer clientIn.Close()
	defer serverOut.Close()

	received := make(chan string, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	serverConn := ServeStdio(ctx, serverIn, serverOut, func(_ context.Context, method string, _ json.RawMessage) (any, error) {
		received <- method
		return nil, nil
	})
	defer serverConn.Close()

	clientConn := ServeStdio(ctx, clientIn, clientOut, func(context.Context, string, json.RawMessage) (any, error) {
		return nil, nil
	})
	defer clientConn.Close()

	require.NoError(t, clientConn.Notify(ctx, MethodPing, PingParams{}))

	select {
	case method := <-received:
		assert.Equal(t, MethodPing, method)
	case <-ctx.Done():
		t.Fatal("server never received the notification")
	}
}
