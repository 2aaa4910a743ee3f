package engine

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellQuotePlainToken(t *testing.T) {
	assert.Equal(t, "objs/Player.o", ShellQuote("objs/Player.o"))
}

func TestShellQuoteSpecialChars(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a b", "'a b'"},
		{"it's", "'it''s'"},
		{"=foo", "'=foo'"},
		{"#comment", "'#comment'"},
		{"a&b", "'a&b'"},
		{"", "''"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ShellQuote(c.in), c.in)
	}
}

func TestPrettyCommandJoinsQuotedTokens(t *testing.T) {
	got := PrettyCommand([]string{"g++", "-o", "a b/out", "main.cpp"})
	assert.Equal(t, "g++ -o 'a b/out' main.cpp", got)
}

func TestRunCommandSuccessAndFailure(t *testing.T) {
	e := New(t.TempDir(), Linux, 1, ColorNever, nil)

	e.SetExec(func(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
		if argv[0] == "fail" {
			return &exitStub{code: 2}
		}
		return nil
	})

	require.NoError(t, e.RunCommand(context.Background(), []string{"ok"}, "step"))

	err := e.RunCommand(context.Background(), []string{"fail"}, "step")
	require.Error(t, err)
	assert.True(t, IsBuildError(err))
}

type exitStub struct{ code int }

func (e *exitStub) Error() string { return "exit stub" }
