// Package lspadapter is the external LSP client touchpoint spec.md §1
// declares out of scope for implementation but in scope for its
// interface: it launches a language plugin's LSP server as a
// subprocess, forwards buffer changes to it, turns its
// textDocument/publishDiagnostics notifications into
// internal/buffer.Buffer diagnostics, and issues
// textDocument/definition requests built from the buffer's current
// SelectionMode position.
//
// The teacher itself plays the opposite role (its internal/server is an
// LSP *server*), so this package is grounded on
// the teacher's own wire types (protocol_3_16) and framing
// (sourcegraph/jsonrpc2, the same library internal/ipc frames its own
// protocol with) rather than on any client code in the pack, which the
// corpus doesn't contain.
package lspadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/ipc"
	"github.com/kimod/kimod/internal/selection"
)

var logger = commonlog.GetLoggerf("kimod.lspadapter")

// Client is one running external LSP server process plus the JSON-RPC
// connection to it.
type Client struct {
	cmd  *exec.Cmd
	conn *jsonrpc2.Conn

	mu      sync.RWMutex
	buffers map[string]*buffer.Buffer // URI -> buffer, for diagnostics delivery
}

// clientHandler routes inbound notifications from the external LSP
// server (principally textDocument/publishDiagnostics) back onto the
// owning Client.
type clientHandler struct {
	c *Client
}

func (h clientHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if req.Method != "textDocument/publishDiagnostics" || req.Params == nil {
		return
	}
	var params protocol.PublishDiagnosticsParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		logger.Warningf("malformed publishDiagnostics: %v", err)
		return
	}
	h.c.applyDiagnostics(string(params.URI), params.Diagnostics)
}

// Start launches command (e.g. a PerLanguageConfig.LSPCommand) and
// completes the LSP initialize handshake against workspaceRoot.
func Start(ctx context.Context, command []string, workspaceRoot string) (*Client, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("lspadapter: empty LSP command")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("lspadapter: starting %v: %w", command, err)
	}

	c := &Client{cmd: cmd, buffers: make(map[string]*buffer.Buffer)}
	stream := jsonrpc2.NewBufferedStream(rwc{stdout, stdin}, jsonrpc2.VSCodeObjectCodec{})
	c.conn = jsonrpc2.NewConn(ctx, stream, clientHandler{c: c})

	rootURI := protocol.DocumentUri("file://" + workspaceRoot)
	initParams := protocol.InitializeParams{
		RootURI: &rootURI,
	}
	var result protocol.InitializeResult
	if err := c.conn.Call(ctx, "initialize", initParams, &result); err != nil {
		return nil, fmt.Errorf("lspadapter: initialize: %w", err)
	}
	if err := c.conn.Notify(ctx, "initialized", protocol.InitializedParams{}); err != nil {
		return nil, fmt.Errorf("lspadapter: initialized: %w", err)
	}
	return c, nil
}

type rwc struct {
	r io.Reader
	w io.Writer
}

func (p rwc) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p rwc) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p rwc) Close() error                { return nil }

// Attach registers buf to receive diagnostics published for uri.
func (c *Client) Attach(uri string, buf *buffer.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers[uri] = buf
}

// Detach stops delivering diagnostics for uri.
func (c *Client) Detach(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buffers, uri)
}

// Open tells the external server a document was opened.
func (c *Client) Open(ctx context.Context, uri, languageID, content string) error {
	return c.conn.Notify(ctx, "textDocument/didOpen", protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentUri(uri),
			LanguageID: languageID,
			Text:       content,
		},
	})
}

// Change tells the external server a document's full content changed
// (whole-document sync, matching the teacher's own
// TextDocumentContentChangeEventWhole fallback path).
func (c *Client) Change(ctx context.Context, uri string, version int, content string) error {
	return c.conn.Notify(ctx, "textDocument/didChange", protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
			Version:                version,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: content},
		},
	})
}

// Close tells the external server a document was closed.
func (c *Client) Close(ctx context.Context, uri string) error {
	c.Detach(uri)
	return c.conn.Notify(ctx, "textDocument/didClose", protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
	})
}

// Shutdown closes the connection and the underlying process.
func (c *Client) Shutdown() error {
	err := c.conn.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	return err
}

// applyDiagnostics converts an LSP diagnostics push into
// buffer.Diagnostic values and installs them on the attached buffer,
// per spec.md §1's "feeds LSP diagnostics into Buffer.SetDiagnostics".
func (c *Client) applyDiagnostics(uri string, diags []protocol.Diagnostic) {
	c.mu.RLock()
	buf, ok := c.buffers[uri]
	c.mu.RUnlock()
	if !ok {
		return
	}

	content := buf.Content()
	out := make([]buffer.Diagnostic, 0, len(diags))
	for _, d := range diags {
		startPos := ipc.FromWirePosition(content, int(d.Range.Start.Line), int(d.Range.Start.Character))
		endPos := ipc.FromWirePosition(content, int(d.Range.End.Line), int(d.Range.End.Character))
		startChar, err := buf.PositionToChar(startPos)
		if err != nil {
			continue
		}
		endChar, err := buf.PositionToChar(endPos)
		if err != nil {
			continue
		}
		out = append(out, buffer.Diagnostic{
			Range:    coord.NewCharIndexRange(startChar, endChar),
			Severity: severityFromLSP(d.Severity),
			Message:  d.Message,
			Source:   stringOrEmpty(d.Source),
		})
	}
	buf.SetDiagnostics(out)
}

func severityFromLSP(s *protocol.DiagnosticSeverity) buffer.Severity {
	if s == nil {
		return buffer.SeverityError
	}
	switch *s {
	case protocol.DiagnosticSeverityWarning:
		return buffer.SeverityWarning
	case protocol.DiagnosticSeverityInformation:
		return buffer.SeverityInfo
	case protocol.DiagnosticSeverityHint:
		return buffer.SeverityHint
	default:
		return buffer.SeverityError
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Definition issues a textDocument/definition request at the cursor end
// of sel, converting it into the request position the same way the
// outbound half of internal/ipc/position.go does. engine is not
// consulted: the position comes from sel as the caller passes it.
func (c *Client) Definition(ctx context.Context, uri string, buf *buffer.Buffer, engine selection.Engine, sel selection.Selection) ([]protocol.Location, error) {
	charPos, err := buf.CharToPosition(sel.Cursor(selection.CursorEnd))
	if err != nil {
		return nil, err
	}
	content := buf.Content()
	line, col := ipc.ToWirePosition(content, charPos)

	var locations []protocol.Location
	err = c.conn.Call(ctx, "textDocument/definition", protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
			Position:     protocol.Position{Line: uint32(line), Character: uint32(col)},
		},
	}, &locations)
	if err != nil {
		return nil, fmt.Errorf("lspadapter: definition: %w", err)
	}
	return locations, nil
}
