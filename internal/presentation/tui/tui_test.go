package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionsTable(t *testing.T) {
	table := ActionsTable([]domain.Descriptor{
		{Name: "setOn", Arity: 1, Default: true, Slice: "lamp"},
		{Name: "dim", Arity: 0},
	})
	assert.Contains(t, table, "| `setOn` | 1 | default | lamp |")
	assert.Contains(t, table, "| `dim` | 0 | user | - |")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer("notty")
	require.NoError(t, err)

	out, err := render(ActionsTable([]domain.Descriptor{{Name: "toggleOn", Default: true, Slice: "lamp"}}))
	require.NoError(t, err)
	assert.Contains(t, out, "toggleOn")
	assert.Contains(t, out, "lamp")
}

func TestPrintBanner_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[")
}
