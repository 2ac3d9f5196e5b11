package lspadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kimod/kimod/internal/buffer"
)

func newClientForTest() *Client {
	return &Client{buffers: make(map[string]*buffer.Buffer)}
}

func TestApplyDiagnosticsConvertsRangesAndSeverity(t *testing.T) {
	buf := buffer.New("line one\nline two\nline three\n", nil)
	c := newClientForTest()
	c.Attach("file:///a.go", buf)

	warn := protocol.DiagnosticSeverityWarning
	msg := "unused variable"
	source := "kimodls"
	c.applyDiagnostics("file:///a.go", []protocol.Diagnostic{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 1, Character: 0},
				End:   protocol.Position{Line: 1, Character: 4},
			},
			Severity: &warn,
			Message:  msg,
			Source:   &source,
		},
	})

	diags := buf.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, buffer.SeverityWarning, diags[0].Severity)
	assert.Equal(t, msg, diags[0].Message)
	assert.Equal(t, source, diags[0].Source)
}

func TestApplyDiagnosticsIgnoresUnattachedURI(t *testing.T) {
	c := newClientForTest()
	assert.NotPanics(t, func() {
		c.applyDiagnostics("file:///missing.go", []protocol.Diagnostic{{Message: "x"}})
	})
}

func TestSeverityFromLSPDefaultsToError(t *testing.T) {
	assert.Equal(t, buffer.SeverityError, severityFromLSP(nil))
}

func TestSeverityFromLSPMapsEachLevel(t *testing.T) {
	info := protocol.DiagnosticSeverityInformation
	hint := protocol.DiagnosticSeverityHint
	assert.Equal(t, buffer.SeverityInfo, severityFromLSP(&info))
	assert.Equal(t, buffer.SeverityHint, severityFromLSP(&hint))
}
