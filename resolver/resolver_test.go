package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/qdb-core/memory"
	"github.com/wbrown/qdb-core/value"
)

func TestResolveCreateThenRead(t *testing.T) {
	ch := memory.NewChannel()

	_, err := Resolve(ch, `onCreate(my_node)(c:int = 2)`)
	require.NoError(t, err)

	resp, err := Resolve(ch, `onRead(my_node)(c > 0)`)
	require.NoError(t, err)
	require.False(t, resp.Empty)
	require.Len(t, resp.Snapshots, 1)
	assert.Equal(t, "c", resp.Snapshots[0].Name)
	assert.Equal(t, 0, value.Compare(value.NewInt(2), resp.Snapshots[0].Values[0]))
}

func TestResolveOnCreateReturnsEmpty(t *testing.T) {
	ch := memory.NewChannel()
	resp, err := Resolve(ch, `onCreate(n)(x:int = 1)`)
	require.NoError(t, err)
	assert.True(t, resp.Empty)
	assert.Nil(t, resp.Snapshots)
}

func TestResolveReadMissingChannelIsEmptyNotError(t *testing.T) {
	ch := memory.NewChannel()
	resp, err := Resolve(ch, `onRead(ghost)(x > 0)`)
	require.NoError(t, err)
	assert.False(t, resp.Empty)
	assert.Empty(t, resp.Snapshots)
}

func TestResolveReadNoMatchIsEmpty(t *testing.T) {
	ch := memory.NewChannel()
	_, err := Resolve(ch, `onCreate(n)(x:int = 1)`)
	require.NoError(t, err)

	resp, err := Resolve(ch, `onRead(n)(x > 100)`)
	require.NoError(t, err)
	assert.Empty(t, resp.Snapshots)
}

func TestResolveUnsatisfiableReadIsEmpty(t *testing.T) {
	ch := memory.NewChannel()
	_, err := Resolve(ch, `onCreate(n)(a:int = 1, b:int = 1)`)
	require.NoError(t, err)

	// The symbol-vs-symbol rejection is exercised directly at the
	// memory.MemoryTable level in memory/table_test.go; here a predicate
	// referencing a variable the channel has never seen covers the
	// "can't satisfy, falls through to empty" path through Resolve.
	resp, err := Resolve(ch, `onRead(n)(c == 1)`)
	require.NoError(t, err)
	assert.Empty(t, resp.Snapshots)
}

func TestResolveReusesExistingChannelOnSecondCreate(t *testing.T) {
	ch := memory.NewChannel()
	_, err := Resolve(ch, `onCreate(n)(x:int = 1)`)
	require.NoError(t, err)
	_, err = Resolve(ch, `onCreate(n)(x:int = 2)`)
	require.NoError(t, err)

	table, ok := ch.Table("n")
	require.True(t, ok)
	m, ok := table.Machine("x")
	require.True(t, ok)
	assert.EqualValues(t, 2, m.Clock())
}

// OnRead across multiple channels accumulates into one flat list with
// no per-channel labeling.
func TestResolveFlattensAcrossChannels(t *testing.T) {
	ch := memory.NewChannel()
	_, err := Resolve(ch, `onCreate(a)(x:int = 1)`)
	require.NoError(t, err)
	_, err = Resolve(ch, `onCreate(b)(x:int = 1)`)
	require.NoError(t, err)

	resp, err := Resolve(ch, `onRead(a, b)(x == 1)`)
	require.NoError(t, err)
	assert.Len(t, resp.Snapshots, 2)
}

func TestResolveParseErrorSurfacesVerbatim(t *testing.T) {
	ch := memory.NewChannel()
	_, err := Resolve(ch, `onCreate(`)
	require.Error(t, err)
}
