package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifeos/internal/ledger"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"day": "2026-01-05"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("DUPLICATE_LOG", "daily log already submitted", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_LOG", resp.Error.Code)
	assert.Equal(t, "daily log already submitted", resp.Error.Message)
}

func TestOutputFormatter_TextSuccessf(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Successf(nil, "Logged %s. The day is locked.", "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, "Logged 2026-01-05. The day is locked.\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("FOCUS_LOCK_ACTIVE", "an open session already exists", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [FOCUS_LOCK_ACTIVE]")
}

func TestFail_MapsLedgerCodes(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := fail(formatter, &ledger.Error{
		Code:    ledger.ErrCodeDuplicateLog,
		Message: "already submitted",
		Day:     "2026-01-05",
	})

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "DUPLICATE_LOG")
}

func TestFail_UnknownErrorIsCommandError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := fail(formatter, errors.New("disk on fire"))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "COMMAND_ERROR")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	wrapped := WrapExitError(ExitFailure, "operation rejected", inner)

	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), "operation rejected")
	assert.Contains(t, wrapped.Error(), "root cause")
}
