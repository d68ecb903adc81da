package ext

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcx/extdb/codec"
)

func pollUntilReady(t *testing.T, e *Extension, ticket string, outCap int) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		out := e.Call(ticket, outCap)
		if out != codec.Pending() {
			return out
		}
		require.True(t, time.Now().Before(deadline), "result never became ready")
		time.Sleep(time.Millisecond)
	}
}

func TestCallTooShort(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Invalid Message, (Message to short)"]`, e.Call("", 80))
	assert.Equal(t, `[0,"Error Invalid Message, (Message to short)"]`, e.Call("0:", 80))
}

func TestCallUnknownMode(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Invalid Message"]`, e.Call("7:m:x", 80))
}

func TestCallMissingSeparator(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Invalid Format"]`, e.Call("0:nodata", 80))
}

func TestSyncUnknownProtocol(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Unknown Protocol"]`, e.Call("0:NOSUCH:x", 80))
}

func TestSyncInline(t *testing.T) {
	e := newTestExtension(t, testConf)
	require.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))
	assert.Equal(t, "[1, hello]", e.Call("0:m:hello", 80))
}

func TestSyncLargeResultPaged(t *testing.T) {
	e := newTestExtension(t, testConf)
	require.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))

	payload := strings.Repeat("x", 10000)
	out := e.Call("0:m:"+payload, 80)
	require.Equal(t, `[2,"0"]`, out)

	var got strings.Builder
	for {
		chunk := e.Call("5:0", 80)
		if chunk == "" {
			break
		}
		assert.LessOrEqual(t, len(chunk), 80-codec.EnvelopeReserve)
		got.WriteString(chunk)
	}
	assert.Equal(t, "[1,"+payload+"]", got.String())

	// The drained id is gone; polling it again answers end-of-stream.
	assert.Equal(t, "", e.Call("5:0", 80))
}

func TestAsyncFireAndForget(t *testing.T) {
	e := newTestExtension(t, testConf)
	require.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))

	assert.Equal(t, "[1]", e.Call("1:m:hello", 80))
	// Missing handlers are tolerated silently on the worker.
	assert.Equal(t, "[1]", e.Call("1:NOSUCH:x", 80))
}

func TestSaveCallTicketLifecycle(t *testing.T) {
	e := newTestExtension(t, testConf)
	require.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))

	out := e.Call("2:m:hi", 80)
	require.Equal(t, `[2,"0"]`, out)

	got := pollUntilReady(t, e, "5:0", 80)
	assert.Equal(t, "[1,hi]", got)

	// Terminal empty fetch frees the id.
	assert.Equal(t, "", e.Call("5:0", 80))
	assert.Equal(t, "", e.Call("5:0", 80))

	// The freed id is the smallest free id again.
	assert.Equal(t, `[2,"0"]`, e.Call("2:m:again", 80))
	pollUntilReady(t, e, "5:0", 80)
	e.Call("5:0", 80)
}

func TestSaveCallUnknownProtocol(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Unknown Protocol"]`, e.Call("2:NOSUCH:x", 80))

	// No id leaked; the next ticket still starts at zero.
	require.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))
	assert.Equal(t, `[2,"0"]`, e.Call("2:m:x", 80))
}

func TestPollBadTicket(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Invalid Message"]`, e.Call("5:abc", 80))
}

func TestPollUnknownTicket(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, "", e.Call("5:42", 80))
}

func TestAdminVersion(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, "16", e.Call("9:VERSION", 80))
}

func TestAdminLockLatches(t *testing.T) {
	e := newTestExtension(t, testConf)
	require.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))

	assert.Equal(t, "", e.Call("9:LOCK", 80))

	// Every admin command is now a silent no-op.
	assert.Equal(t, "", e.Call("9:ADD:MISC:m2", 80))
	assert.Equal(t, "", e.Call("9:VERSION", 80))
	assert.Equal(t, "", e.Call("9:LOCK", 80))

	// Registry unchanged: m still answers, m2 was never registered.
	assert.Equal(t, "[1, x]", e.Call("0:m:x", 80))
	assert.Equal(t, `[0,"Error Unknown Protocol"]`, e.Call("0:m2:x", 80))
}

func TestAdminReRegisterReplaces(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))
	assert.Equal(t, "[1]", e.Call("9:ADD:MISC:m", 80))
	assert.Equal(t, "[1, x]", e.Call("0:m:x", 80))
}

func TestAdminUnknownKind(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Unknown Protocol"]`, e.Call("9:ADD:TELEPORT:tp", 80))
}

func TestAdminBadTokenCount(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Error Invalid Format"]`, e.Call("9:ADD:MISC:m:a:b", 80))
}

func TestAdminUnknownTwoTokenSilent(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, "", e.Call("9:REBOOT", 80))
}

func TestAdminDatabaseMissingSection(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"No Config Option Found"]`, e.Call("9:DATABASE:NoSuchSection", 80))
}

func TestAdminDatabaseUnknownType(t *testing.T) {
	conf := testConf + "\n[BadDB]\nType = Postgres\nName = x\n"
	e := newTestExtension(t, conf)
	assert.Equal(t, `[0,"Unknown Database Type"]`, e.Call("9:DATABASE:BadDB", 80))
}

func TestAdminDatabaseSQLite(t *testing.T) {
	e := newTestExtension(t, testConf)
	require.Equal(t, "[1]", e.Call("9:DATABASE:Database", 80))
	require.NotNil(t, e.Pool())

	// With a live pool, DB protocols initialize and answer queries.
	require.Equal(t, "[1]", e.Call("9:ADD:DB_RAW_V2:sql", 80))
	assert.Equal(t, "[1, [[1]]]", e.Call("0:sql:SELECT 1", 80))
}

func TestDBProtocolWithoutDatabase(t *testing.T) {
	e := newTestExtension(t, testConf)
	assert.Equal(t, `[0,"Failed to Load Protocol"]`, e.Call("9:ADD:DB_RAW_V2:sql", 80))
}
