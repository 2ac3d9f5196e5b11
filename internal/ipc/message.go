// Package ipc implements spec.md §6's custom IPC protocol: the
// editor core communicates with its frontend (terminal, GUI, or
// browser extension) as JSON-RPC-style requests, responses, and
// notifications, framed by sourcegraph/jsonrpc2 and carried over
// either stdio or a WebSocket, per SPEC_FULL.md's DOMAIN STACK rows
// for those two libraries.
//
// The teacher speaks a single, closed protocol (LSP, via glsp) over
// stdio only; this package generalizes that same framing library to
// spec.md §6's open set of editor-specific messages and adds the
// WebSocket transport variant neither spec.md nor the teacher's LSP
// server needs but SPEC_FULL.md's DOMAIN STACK calls for wiring in.
package ipc

import "github.com/kimod/kimod/internal/coord"

// Method names match spec.md §6's message names exactly; they double
// as the jsonrpc2 request/notification method strings on the wire.
const (
	MethodBufferOpen              = "buffer.open"
	MethodBufferChange            = "buffer.change"
	MethodBufferActive            = "buffer.active"
	MethodSelectionSet            = "selection.set"
	MethodKeyboardInput           = "keyboard.input"
	MethodViewportChange          = "viewport.change"
	MethodDiagnosticsChange       = "diagnostics.change"
	MethodPromptEnter             = "prompt.enter"
	MethodEditorSyncBufferResponse = "editor.syncBufferResponse"
	MethodPing                    = "ping"
	MethodBufferDiff              = "buffer.diff"
	MethodSelectionUpdate         = "selection.update"
	MethodModeChange              = "mode.change"
	MethodSelectionModeChange     = "selection_mode.change"
	MethodEditorJump              = "editor.jump"
	MethodEditorMark              = "editor.mark"
	MethodPromptOpened            = "prompt.opened"
	MethodEditorKeyboardLayout    = "editor.keyboardLayout"
	MethodEditorSyncBufferRequest = "editor.syncBufferRequest"
	MethodError                  = "error"
)

// EditOp is one edit in a buffer.change/buffer.diff payload, the wire
// shape of internal/edit.Edit (char-index ranges, not byte offsets —
// spec.md's Buffer is a rope of characters, not bytes).
type EditOp struct {
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	Old       string `json:"old"`
	New       string `json:"new"`
}

// WireSelection is the wire shape of a selection.Selection: a char
// range plus which end is the cursor.
type WireSelection struct {
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	Cursor    string `json:"cursor"` // "start" or "end"
}

// BufferOpenParams is spec.md §6's inbound buffer.open{uri, content,
// selections}.
type BufferOpenParams struct {
	URI        string          `json:"uri"`
	Content    string          `json:"content"`
	Selections []WireSelection `json:"selections,omitempty"`
}

// BufferChangeParams is inbound buffer.change{buffer_id, edits[]}.
type BufferChangeParams struct {
	BufferID string   `json:"buffer_id"`
	Edits    []EditOp `json:"edits"`
}

// BufferActiveParams is inbound buffer.active{uri}.
type BufferActiveParams struct {
	URI string `json:"uri"`
}

// SelectionSetParams is inbound selection.set{buffer_id, selections[],
// primary}.
type SelectionSetParams struct {
	BufferID   string          `json:"buffer_id"`
	Selections []WireSelection `json:"selections"`
	Primary    int             `json:"primary"`
}

// KeyboardInputParams is inbound keyboard.input{key, uri,
// content_hash}; content_hash lets the core reject a keystroke applied
// against a stale view of the buffer without a full diff round trip.
type KeyboardInputParams struct {
	Key         string `json:"key"`
	URI         string `json:"uri"`
	ContentHash string `json:"content_hash"`
}

// LineRange is an inclusive [Start, End] line range in a viewport or
// diagnostic payload.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ViewportChangeParams is inbound viewport.change{buffer_id,
// visible_line_ranges[]} and, reused verbatim, the outbound echo of
// the same shape.
type ViewportChangeParams struct {
	BufferID          string      `json:"buffer_id"`
	VisibleLineRanges []LineRange `json:"visible_line_ranges"`
}

// Diagnostic is one entry of the inbound diagnostics.change[] array.
type Diagnostic struct {
	URI      string `json:"uri"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Range    struct {
		StartChar int `json:"start_char"`
		EndChar   int `json:"end_char"`
	} `json:"range"`
}

// PromptEnterParams is inbound prompt.enter{text}: the frontend's
// answer to an outbound prompt.opened.
type PromptEnterParams struct {
	Text string `json:"text"`
}

// EditorSyncBufferResponseParams is the frontend's reply to an
// outbound editor.syncBufferRequest.
type EditorSyncBufferResponseParams struct {
	URI     string `json:"uri"`
	Content string `json:"content"`
}

// BufferDiffParams is outbound buffer.diff{buffer_id, edits[]}: the
// core's own edits, pushed to the frontend so it can apply the same
// diff to its local copy instead of re-fetching the whole buffer.
type BufferDiffParams struct {
	BufferID string   `json:"buffer_id"`
	Edits    []EditOp `json:"edits"`
}

// SelectionUpdateParams is outbound selection.update{…}.
type SelectionUpdateParams struct {
	BufferID   string          `json:"buffer_id"`
	Selections []WireSelection `json:"selections"`
	Primary    int             `json:"primary"`
}

// ModeChangeParams is outbound mode.change{mode, buffer_id?}.
type ModeChangeParams struct {
	Mode     string  `json:"mode"`
	BufferID *string `json:"buffer_id,omitempty"`
}

// SelectionModeChangeParams is outbound selection_mode.change{mode,
// buffer_id?}.
type SelectionModeChangeParams struct {
	Mode     string  `json:"mode"`
	BufferID *string `json:"buffer_id,omitempty"`
}

// JumpTarget is one entry of an outbound editor.jump's targets[].
type JumpTarget struct {
	Key      string        `json:"key"`
	Position coord.Position `json:"position"`
}

// EditorJumpParams is outbound editor.jump{uri, targets[]}.
type EditorJumpParams struct {
	URI     string       `json:"uri"`
	Targets []JumpTarget `json:"targets"`
}

// WireMark is the wire shape of a workspace.Mark.
type WireMark struct {
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`
}

// EditorMarkParams is outbound editor.mark{uri, marks[]}.
type EditorMarkParams struct {
	URI   string     `json:"uri"`
	Marks []WireMark `json:"marks"`
}

// PromptItem is one selectable entry of an outbound prompt.opened.
type PromptItem struct {
	Label   string  `json:"label"`
	Details *string `json:"details,omitempty"`
}

// PromptOpenedParams is outbound prompt.opened{title, items[]}.
type PromptOpenedParams struct {
	Title string       `json:"title"`
	Items []PromptItem `json:"items"`
}

// EditorKeyboardLayoutParams is outbound
// editor.keyboardLayout{name}.
type EditorKeyboardLayoutParams struct {
	Name string `json:"name"`
}

// EditorSyncBufferRequestParams is outbound
// editor.syncBufferRequest{uri}: the core asking the frontend for its
// current view of a buffer, used to recover from a content_hash
// mismatch on keyboard.input.
type EditorSyncBufferRequestParams struct {
	URI string `json:"uri"`
}

// ErrorParams is outbound error{message}.
type ErrorParams struct {
	Message string `json:"message"`
}

// PingParams carries no payload either direction; ping is a liveness
// notification both inbound and outbound.
type PingParams struct{}
