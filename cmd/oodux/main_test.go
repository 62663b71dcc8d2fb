package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/oodux"
	httpAdapter "github.com/aretw0/oodux/pkg/adapters/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Lamp struct {
	On    bool `json:"on"`
	Level int  `json:"level"`
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	store := oodux.Define[Lamp]().Init()
	ts := httptest.NewServer(httpAdapter.NewHandler(httpAdapter.FromStore(store)))
	defer ts.Close()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "oodux version "+strings.TrimSpace(oodux.Version)+"\n", out)

	out, err = run(t, "dispatch", "toggleOn", "--addr", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"on": true`)
	assert.True(t, store.State().On)

	out, err = run(t, "dispatch", "setLevel", "7", "--addr", ts.URL, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "level: 7")

	out, err = run(t, "state", "--addr", ts.URL, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"revision": 2`)

	out, err = run(t, "actions", "--addr", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "incrementLevel"`)

	_, err = run(t, "dispatch", "noop", "--addr", ts.URL)
	assert.Error(t, err)
}
