package protocol

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMisc(t *testing.T) Protocol {
	t.Helper()
	p := &miscProtocol{}
	require.True(t, p.Init(&testHost{}, ""))
	return p
}

func TestMiscEcho(t *testing.T) {
	p := newMisc(t)
	out, err := p.Call(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestMiscTime(t *testing.T) {
	p := newMisc(t)
	out, err := p.Call(context.Background(), "TIME")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\[\[\d+,\d+,\d+\],\[\d+,\d+,\d+\]\]$`), out)
}

func TestMiscTimeOffset(t *testing.T) {
	p := newMisc(t)
	out, err := p.Call(context.Background(), "TIME:2")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\[\[\d+,\d+,\d+\],\[\d+,\d+,\d+\]\]$`), out)

	_, err = p.Call(context.Background(), "TIME:soon")
	assert.Error(t, err)
}

func TestMiscRandom(t *testing.T) {
	p := newMisc(t)
	for i := 0; i < 50; i++ {
		out, err := p.Call(context.Background(), "RANDOM:10")
		require.NoError(t, err)
		n, err := strconv.Atoi(out)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 10)
	}

	_, err := p.Call(context.Background(), "RANDOM:zero")
	assert.Error(t, err)
	_, err = p.Call(context.Background(), "RANDOM:0")
	assert.Error(t, err)
}

func TestMiscBEML(t *testing.T) {
	p := newMisc(t)
	out, err := p.Call(context.Background(), `BEML:say "hi" to 'them'`)
	require.NoError(t, err)
	assert.Equal(t, `say ""hi"" to ''them''`, out)
}

func TestLooksNumeric(t *testing.T) {
	assert.True(t, looksNumeric("42"))
	assert.True(t, looksNumeric("-3.5"))
	assert.False(t, looksNumeric(""))
	assert.False(t, looksNumeric("abc"))
	assert.False(t, looksNumeric("12 men"))
}

func TestSplitArgs(t *testing.T) {
	name, args := splitArgs("proc")
	assert.Equal(t, "proc", name)
	assert.Nil(t, args)

	name, args = splitArgs("proc:1:two:3")
	assert.Equal(t, "proc", name)
	assert.Equal(t, []any{"1", "two", "3"}, args)
}

func TestValidProcedureName(t *testing.T) {
	assert.True(t, validProcedureName("update_player_2"))
	assert.False(t, validProcedureName(""))
	assert.False(t, validProcedureName("drop table;"))
	assert.False(t, validProcedureName("a b"))
}
