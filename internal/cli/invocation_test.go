package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

func TestParseInvocation_Generate(t *testing.T) {
	inv, err := ParseInvocation([]string{"generate", "--output", "public"})
	require.NoError(t, err)
	assert.Equal(t, CommandGenerate, inv.Command)
	assert.Equal(t, "public", inv.Generate.Output)
}

func TestParseInvocation_GenerateShorthand(t *testing.T) {
	inv, err := ParseInvocation([]string{"generate", "-o", "out"})
	require.NoError(t, err)
	assert.Equal(t, "out", inv.Generate.Output)
}

func TestParseInvocation_GenerateRequiresOutput(t *testing.T) {
	_, err := ParseInvocation([]string{"generate"})
	assertUsageError(t, err)
}

func TestParseInvocation_GenerateRejectsPositionalArgs(t *testing.T) {
	_, err := ParseInvocation([]string{"generate", "--output", "public", "extra"})
	assertUsageError(t, err)
}

func TestParseInvocation_NtfyURLsDefaults(t *testing.T) {
	inv, err := ParseInvocation([]string{"ntfy-urls"})
	require.NoError(t, err)
	assert.Equal(t, CommandNtfyURLs, inv.Command)
	assert.Equal(t, "", inv.NtfyURLs.Host)
	assert.Equal(t, "-", inv.NtfyURLs.Output)
	assert.False(t, inv.NtfyURLs.Existing)
	assert.Equal(t, 0, inv.NtfyURLs.Indent)
}

func TestParseInvocation_NtfyURLsFlags(t *testing.T) {
	inv, err := ParseInvocation([]string{
		"ntfy-urls", "--host", "https://ntfy.example.com",
		"--output", "endpoints.json", "--existing", "--indent", "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://ntfy.example.com", inv.NtfyURLs.Host)
	assert.Equal(t, "endpoints.json", inv.NtfyURLs.Output)
	assert.True(t, inv.NtfyURLs.Existing)
	assert.Equal(t, 2, inv.NtfyURLs.Indent)
}

func TestParseInvocation_NtfyURLsExistingNeedsFile(t *testing.T) {
	_, err := ParseInvocation([]string{"ntfy-urls", "--existing"})
	assertUsageError(t, err)
}

func TestParseInvocation_NtfyURLsNegativeIndent(t *testing.T) {
	_, err := ParseInvocation([]string{"ntfy-urls", "--indent", "-1"})
	assertUsageError(t, err)
}

func TestParseInvocation_Notify(t *testing.T) {
	inv, err := ParseInvocation([]string{"notify", "endpoints.json"})
	require.NoError(t, err)
	assert.Equal(t, CommandNotify, inv.Command)
	assert.Equal(t, "endpoints.json", inv.Notify.EndpointsFile)
	assert.False(t, inv.Notify.DryRun)
}

func TestParseInvocation_NotifyDryRun(t *testing.T) {
	inv, err := ParseInvocation([]string{"notify", "--dry-run", "endpoints.json"})
	require.NoError(t, err)
	assert.True(t, inv.Notify.DryRun)
}

func TestParseInvocation_NotifyRequiresFile(t *testing.T) {
	_, err := ParseInvocation([]string{"notify"})
	assertUsageError(t, err)

	_, err = ParseInvocation([]string{"notify", "a.json", "b.json"})
	assertUsageError(t, err)
}

func TestParseInvocation_NotifyBins(t *testing.T) {
	inv, err := ParseInvocation([]string{"notify-bins", "endpoints.json"})
	require.NoError(t, err)
	assert.Equal(t, CommandNotifyBins, inv.Command)
	assert.Equal(t, "endpoints.json", inv.Notify.EndpointsFile)
}

func TestParseInvocation_ServeDefaults(t *testing.T) {
	inv, err := ParseInvocation([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, CommandServe, inv.Command)
	assert.Equal(t, "public", inv.Serve.Dir)
	assert.Equal(t, "127.0.0.1:8080", inv.Serve.Addr)
}

func TestParseInvocation_ServeFlags(t *testing.T) {
	inv, err := ParseInvocation([]string{"serve", "--dir", "out", "--addr", ":8787"})
	require.NoError(t, err)
	assert.Equal(t, "out", inv.Serve.Dir)
	assert.Equal(t, ":8787", inv.Serve.Addr)
}

func TestParseInvocation_Version(t *testing.T) {
	inv, err := ParseInvocation([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, CommandVersion, inv.Command)

	_, err = ParseInvocation([]string{"version", "now"})
	assertUsageError(t, err)
}

func TestParseInvocation_NoArguments(t *testing.T) {
	_, err := ParseInvocation(nil)
	assertUsageError(t, err)
}

func TestParseInvocation_UnknownCommand(t *testing.T) {
	_, err := ParseInvocation([]string{"deploy"})
	assertUsageError(t, err)

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Contains(t, invErr.Message, `unknown command "deploy"`)
}

func TestParseInvocation_HelpExitsZero(t *testing.T) {
	for _, args := range [][]string{{"help"}, {"-h"}, {"--help"}, {"generate", "-h"}} {
		_, err := ParseInvocation(args)
		var invErr *InvocationError
		require.ErrorAs(t, err, &invErr, "args %v", args)
		assert.Equal(t, types.ExitOK, invErr.ExitCode, "args %v", args)
	}
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, types.ExitOK, ExitStatus(nil))
	assert.Equal(t, types.ExitUsage,
		ExitStatus(&InvocationError{ExitCode: types.ExitUsage, Message: "bad flag"}))
	assert.Equal(t, types.ExitConfig,
		ExitStatus(types.NewAppError(types.ErrCodeConfigParse, "bad yaml", nil)))
	assert.Equal(t, types.ExitNotify,
		ExitStatus(types.NewAppError(types.ErrCodeNotifyPartialFailure, "2 of 5 failed", nil)))
	assert.Equal(t, types.ExitInternal, ExitStatus(errors.New("plain error")))
}

func assertUsageError(t *testing.T, err error) {
	t.Helper()
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, types.ExitUsage, invErr.ExitCode)
}
