package utils

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVerbose_And_IsVerbose(t *testing.T) {
	// save original state and restore after test
	original := IsVerbose()
	defer SetVerbose(original)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected IsVerbose() = true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected IsVerbose() = false after SetVerbose(false)")
	}
}

func TestVerbose_OnlyWrittenWhenEnabled(t *testing.T) {
	original := IsVerbose()
	defer SetVerbose(original)

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Verbose("hidden message %s %d", "arg", 42)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Verbose("shown message %s %d", "arg", 42)
	assert.Contains(t, buf.String(), "shown message arg 42")
}

func TestInfo_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Info("test info %s", "message")
	assert.Contains(t, buf.String(), "test info message")
	assert.Contains(t, buf.String(), "level=info")
}

func TestSetLevel(t *testing.T) {
	original := IsVerbose()
	defer SetVerbose(original)

	require.NoError(t, SetLevel("debug"))
	assert.True(t, IsVerbose())

	require.NoError(t, SetLevel("warn"))
	assert.False(t, IsVerbose())

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Info("suppressed")
	Warn("kept %d", 1)
	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "kept 1")

	assert.Error(t, SetLevel("loud"))
}
