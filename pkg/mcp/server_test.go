package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenwise/tokenwise/pkg/chat"
	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/pricing"
	"github.com/tokenwise/tokenwise/pkg/provider"
	"github.com/tokenwise/tokenwise/pkg/provider/providertest"
	"github.com/tokenwise/tokenwise/pkg/router"
	"github.com/tokenwise/tokenwise/pkg/summarize"
	"github.com/tokenwise/tokenwise/pkg/tokens"
)

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func newServer(t *testing.T, fake *providertest.Fake) *Server {
	t.Helper()
	table := pricing.Default()
	r := router.New(table, map[string]provider.Provider{"google": fake}, map[string]string{"fast": "gemini-2.5-flash-lite"})
	calc := pricing.NewCalculator(table, map[string]decimal.Decimal{"INR": decimal.RequireFromString("88.21")})
	return New(Deps{
		Router:       r,
		Calculator:   calc,
		Counter:      tokens.NewCounter(r, calc),
		Summarizer:   summarize.New(r),
		Responder:    chat.NewResponder(r, "gemini-2.5-flash"),
		DefaultModel: "gemini-2.5-flash",
	}, "test")
}

func send(t *testing.T, srv *Server, id int, method string, params any) rpcResponse {
	t.Helper()
	msg := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		msg["params"] = params
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	reply := srv.HandleMessage(context.Background(), raw)
	require.NotNil(t, reply)
	out, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(out, &resp), "raw: %s", out)
	return resp
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) toolResult {
	t.Helper()
	resp := send(t, srv, 3, "tools/call", map[string]any{"name": name, "arguments": args})
	require.Nil(t, resp.Error)
	var res toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	require.NotEmpty(t, res.Content)
	return res
}

func TestInitialize(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	resp := send(t, srv, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
		"capabilities":    map[string]any{},
	})
	require.Nil(t, resp.Error)

	var result struct {
		ServerInfo struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
		Capabilities struct {
			Tools *struct{} `json:"tools"`
		} `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "tokenwise", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestToolsList(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	resp := send(t, srv, 2, "tools/list", nil)
	require.Nil(t, resp.Error)

	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"count_tokens", "estimate_cost", "summarize_text", "list_models", "chat"}, names)
}

func TestCountTokens(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	res := callTool(t, srv, "count_tokens", map[string]any{"text": "Hello, world!", "detailed": true})

	assert.False(t, res.IsError)
	text := res.Content[0].Text
	assert.Contains(t, text, "Tokens: 2")
	assert.Contains(t, text, "Hello | , | world | !")
	assert.Contains(t, text, models.BreakdownNote)
}

func TestCountTokensRequiresText(t *testing.T) {
	fake := &providertest.Fake{}
	srv := newServer(t, fake)
	res := callTool(t, srv, "count_tokens", map[string]any{})

	assert.True(t, res.IsError)
	assert.Zero(t, fake.CountCalls())
}

func TestCountTokensUnknownModel(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	res := callTool(t, srv, "count_tokens", map[string]any{"text": "hi", "model": "nope"})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "Invalid input")
}

func TestCountTokensUpstreamFailure(t *testing.T) {
	fake := &providertest.Fake{CountFunc: func(context.Context, string, string) (int, error) {
		return 0, errors.New("boom")
	}}
	srv := newServer(t, fake)
	res := callTool(t, srv, "count_tokens", map[string]any{"text": "hi"})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "Provider error")
}

func TestEstimateCostFromTokens(t *testing.T) {
	fake := &providertest.Fake{}
	srv := newServer(t, fake)
	res := callTool(t, srv, "estimate_cost", map[string]any{
		"model":         "gpt-3.5-turbo",
		"input_tokens":  2000,
		"output_tokens": 1000,
		"currency":      "inr",
	})

	require.False(t, res.IsError, res.Content[0].Text)
	text := res.Content[0].Text
	assert.Contains(t, text, "0.001000")
	assert.Contains(t, text, "0.001500")
	assert.Contains(t, text, "0.002500")
	assert.Contains(t, text, "Total in INR: 0.220525")
	assert.Zero(t, fake.CountCalls())
}

func TestEstimateCostFromText(t *testing.T) {
	fake := &providertest.Fake{CountFunc: func(context.Context, string, string) (int, error) {
		return 1_000_000, nil
	}}
	srv := newServer(t, fake)
	res := callTool(t, srv, "estimate_cost", map[string]any{"text": "long prompt", "output_tokens": 500})

	require.False(t, res.IsError, res.Content[0].Text)
	text := res.Content[0].Text
	assert.Contains(t, text, "gemini-2.5-flash")
	assert.Contains(t, text, "0.301250")
	assert.Contains(t, text, "Words: 2  Chars: 11")
}

func TestEstimateCostAlias(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	res := callTool(t, srv, "estimate_cost", map[string]any{"model": "fast", "input_tokens": 1_000_000})

	require.False(t, res.IsError, res.Content[0].Text)
	assert.Contains(t, res.Content[0].Text, "gemini-2.5-flash-lite")
	assert.Contains(t, res.Content[0].Text, "0.100000")
}

func TestEstimateCostErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"no input", map[string]any{}},
		{"negative tokens", map[string]any{"input_tokens": -1}},
		{"unknown model", map[string]any{"model": "nope", "input_tokens": 10}},
		{"unknown currency", map[string]any{"input_tokens": 10, "currency": "XYZ"}},
	}
	srv := newServer(t, &providertest.Fake{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := callTool(t, srv, "estimate_cost", tc.args)
			assert.True(t, res.IsError)
		})
	}
}

func TestEstimateCostRejectsNonIntegralTokenCounts(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"fractional input", map[string]any{"input_tokens": 1.9}},
		{"overflowing input", map[string]any{"input_tokens": 1e20}},
		{"string input", map[string]any{"input_tokens": "ten"}},
		{"fractional output", map[string]any{"input_tokens": 10, "output_tokens": 0.5}},
		{"fractional output with text", map[string]any{"text": "hi", "output_tokens": 2.5}},
	}
	fake := &providertest.Fake{}
	srv := newServer(t, fake)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := callTool(t, srv, "estimate_cost", tc.args)
			assert.True(t, res.IsError)
			assert.Contains(t, res.Content[0].Text, "Invalid input")
		})
	}
	assert.Zero(t, fake.CountCalls())
}

func TestSummarizeText(t *testing.T) {
	fake := &providertest.Fake{GenerateFunc: func(context.Context, string, []models.ChatMessage, string) (string, error) {
		return "  short  ", nil
	}}
	srv := newServer(t, fake)
	res := callTool(t, srv, "summarize_text", map[string]any{"text": "one two three four five"})

	assert.False(t, res.IsError)
	text := res.Content[0].Text
	assert.True(t, strings.HasPrefix(text, "short\n"), text)
	assert.Contains(t, text, "Original tokens: 5")
	assert.Contains(t, text, "Summary tokens:  1")
	assert.Contains(t, text, "Tokens saved:    4")
}

func TestSummarizeTextDegrades(t *testing.T) {
	fake := &providertest.Fake{GenerateFunc: func(context.Context, string, []models.ChatMessage, string) (string, error) {
		return "", errors.New("down")
	}}
	srv := newServer(t, fake)
	res := callTool(t, srv, "summarize_text", map[string]any{"text": "some text"})

	assert.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, summarize.FailureText)
}

func TestListModels(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	res := callTool(t, srv, "list_models", nil)

	text := res.Content[0].Text
	for _, m := range pricing.Default().Models() {
		assert.Contains(t, text, m)
	}
	assert.Contains(t, text, "yes")
	assert.Contains(t, text, "no")
}

func TestChat(t *testing.T) {
	fake := &providertest.Fake{}
	srv := newServer(t, fake)
	res := callTool(t, srv, "chat", map[string]any{"message": "hello there"})

	assert.False(t, res.IsError)
	assert.Equal(t, "hello there", res.Content[0].Text)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, chat.Persona, calls[0].System)
	assert.Equal(t, "gemini-2.5-flash", calls[0].Model)
}

func TestChatUpstreamFailure(t *testing.T) {
	fake := &providertest.Fake{GenerateFunc: func(context.Context, string, []models.ChatMessage, string) (string, error) {
		return "", fmt.Errorf("quota")
	}}
	srv := newServer(t, fake)
	res := callTool(t, srv, "chat", map[string]any{"message": "hi"})

	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "Provider error")
}

func TestUnknownMethod(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	resp := send(t, srv, 9, "unknown/method", nil)

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestNotificationNoResponse(t *testing.T) {
	srv := newServer(t, &providertest.Fake{})
	raw := json.RawMessage(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Nil(t, srv.HandleMessage(context.Background(), raw))
}

func TestChatRequiresMessage(t *testing.T) {
	fake := &providertest.Fake{}
	srv := newServer(t, fake)
	res := callTool(t, srv, "chat", map[string]any{"message": ""})

	assert.True(t, res.IsError)
	assert.Empty(t, fake.Calls())
}
