package ipc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"
)

var logger = commonlog.GetLoggerf("kimod.ipc")

// Handler reacts to one inbound request or notification. method is
// one of the Method* constants; params is the raw JSON payload,
// decoded by the handler into the matching *Params struct. A non-nil
// return value is sent back as the jsonrpc2 response for calls
// (ignored for notifications).
type Handler func(ctx context.Context, method string, params json.RawMessage) (any, error)

// jsonrpc2Handler adapts a Handler to jsonrpc2.Handler.
type jsonrpc2Handler struct {
	fn Handler
}

func (h jsonrpc2Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params json.RawMessage
	if req.Params != nil {
		params = *req.Params
	}

	result, err := h.fn(ctx, req.Method, params)
	if req.Notif {
		if err != nil {
			logger.Warningf("notification %s failed: %v", req.Method, err)
		}
		return
	}

	if err != nil {
		if replyErr := conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInternalError,
			Message: err.Error(),
		}); replyErr != nil {
			logger.Warningf("failed to reply with error for %s: %v", req.Method, replyErr)
		}
		return
	}
	if replyErr := conn.Reply(ctx, req.ID, result); replyErr != nil {
		logger.Warningf("failed to reply to %s: %v", req.Method, replyErr)
	}
}

// Conn is a live IPC connection: Notify pushes an outbound message with
// no reply expected (every outbound message in spec.md §6 is fire-and-
// forget from the core's side), and Close tears the transport down.
type Conn struct {
	rpc *jsonrpc2.Conn
}

// Notify sends method with params as a one-way notification.
func (c *Conn) Notify(ctx context.Context, method string, params any) error {
	return c.rpc.Notify(ctx, method, params)
}

// Close shuts down the underlying transport.
func (c *Conn) Close() error {
	return c.rpc.Close()
}

// DisconnectNotify resolves when the underlying connection closes,
// letting the caller release buffer/selection state tied to this
// frontend.
func (c *Conn) DisconnectNotify() <-chan struct{} {
	return c.rpc.DisconnectNotify()
}

// ServeStdio frames the IPC protocol over stdin/stdout using
// jsonrpc2's VSCode-style header framing (Content-Length headers, the
// same wire framing glsp uses for LSP), returning a live Conn. Mirrors
// the teacher's glspserver.NewServer(...).RunStdio() entry point, one
// layer down at the jsonrpc2 level since spec.md's protocol is not
// itself LSP.
func ServeStdio(ctx context.Context, stdin io.ReadCloser, stdout io.WriteCloser, h Handler) *Conn {
	stream := jsonrpc2.NewBufferedStream(rwc{stdin, stdout}, jsonrpc2.VSCodeObjectCodec{})
	rpc := jsonrpc2.NewConn(ctx, stream, jsonrpc2Handler{fn: h})
	return &Conn{rpc: rpc}
}

type rwc struct {
	io.ReadCloser
	io.WriteCloser
}

func (rwc) Close() error { return nil }

// wsReadWriteCloser adapts a *websocket.Conn to io.ReadWriteCloser by
// framing each jsonrpc2 message as one WebSocket text message, the
// transport variant SPEC_FULL.md calls for alongside stdio.
type wsReadWriteCloser struct {
	conn *websocket.Conn
	r    io.Reader
}

func (w *wsReadWriteCloser) Read(p []byte) (int, error) {
	for {
		if w.r != nil {
			n, err := w.r.Read(p)
			if err == io.EOF {
				w.r = nil
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, err
		}
		_, r, err := w.conn.NextReader()
		if err != nil {
			return 0, err
		}
		w.r = r
	}
}

func (w *wsReadWriteCloser) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsReadWriteCloser) Close() error {
	return w.conn.Close()
}

// Upgrader is the default websocket.Upgrader used by ServeWebSocket;
// frontends are assumed to be local editor clients, not untrusted
// third-party browser origins, so CheckOrigin is left permissive.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket upgrades an HTTP request to a WebSocket and frames the
// IPC protocol over it the same way ServeStdio does over stdio.
func ServeWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request, h Handler) (*Conn, error) {
	wsConn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	stream := jsonrpc2.NewBufferedStream(&wsReadWriteCloser{conn: wsConn}, jsonrpc2.VSCodeObjectCodec{})
	rpc := jsonrpc2.NewConn(ctx, stream, jsonrpc2Handler{fn: h})
	return &Conn{rpc: rpc}, nil
}
