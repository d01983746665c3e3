package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TOKENWISE_CONFIG", "")
	t.Setenv("TOKENWISE_PRICING_PATH", "")
	t.Setenv("TOKENWISE_DEFAULT_MODEL", "")
	t.Setenv("TOKENWISE_ALIASES", "")
	t.Setenv("TOKENWISE_EXCHANGE_RATES", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCostCommand(t *testing.T) {
	out, err := run(t, "", "cost", "2000", "1000", "--model", "gpt-3.5-turbo", "--currency", "inr")
	require.NoError(t, err)

	assert.Contains(t, out, "Cost Estimate (gpt-3.5-turbo, openai)")
	assert.Contains(t, out, "0.001000")
	assert.Contains(t, out, "0.001500")
	assert.Contains(t, out, "0.002500")
	assert.Contains(t, out, "Total in INR: 0.220525")
}

func TestCostCommandDefaultModel(t *testing.T) {
	out, err := run(t, "", "cost", "1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Cost Estimate (gemini-2.5-flash, google)")
	assert.Contains(t, out, "0.300000")
	assert.Contains(t, out, "0.000000")
}

func TestCostCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{"cost"}},
		{"not a number", []string{"cost", "many"}},
		{"negative", []string{"cost", "-5"}},
		{"unknown model", []string{"cost", "10", "--model", "nope"}},
		{"unknown currency", []string{"cost", "10", "--currency", "XYZ"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, "", tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestModelsCommand(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	out, err := run(t, "", "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "MODEL"))
	assert.Contains(t, out, "gemini-2.5-pro")
	assert.Contains(t, out, "gpt-4o-mini")
}

func availability(t *testing.T, out, model string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == model {
			return fields[len(fields)-1]
		}
	}
	t.Fatalf("model %s not listed:\n%s", model, out)
	return ""
}

func TestModelsCommandAvailabilityFollowsRegisteredProviders(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	out, err := run(t, "", "models")
	require.NoError(t, err)
	assert.Equal(t, "no", availability(t, out, "gemini-2.5-flash"))
	assert.Equal(t, "no", availability(t, out, "gpt-4o-mini"))

	t.Setenv("GOOGLE_API_KEY", "test-key")
	out, err = run(t, "", "models")
	require.NoError(t, err)
	assert.Equal(t, "yes", availability(t, out, "gemini-2.5-flash"))
	assert.Equal(t, "no", availability(t, out, "gpt-4o-mini"))
}

func TestOnlineCommandRequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	_, err := run(t, "", "tokens", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestReadText(t *testing.T) {
	text, err := readText(strings.NewReader("ignored"), []string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	text, err = readText(strings.NewReader("from stdin\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	_, err = readText(strings.NewReader("  \n"), nil)
	assert.Error(t, err)
}
