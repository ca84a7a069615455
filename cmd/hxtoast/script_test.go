package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runScript(context.Background(), &buf, 0))
	out := buf.String()

	for _, want := range []string{
		"start",
		"(no toasts)",
		"this is toast #0",
		"This will disappear soon!",
		"toasts right now: 2",
		"toasts right now: 1",
		"scope closed",
	} {
		require.Contains(t, out, want)
	}

	// After adding #1, the newest toast is printed first.
	step := out[strings.Index(out, "add toast #1"):strings.Index(out, "close toast #0")]
	require.Less(t, strings.Index(step, "this is toast #1"), strings.Index(step, "this is toast #0"))

	// Toast 99 lives in another scope and never shows up here.
	require.NotContains(t, out, "toast #99")
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--short"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, version+"\n", buf.String())
}
