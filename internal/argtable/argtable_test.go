package argtable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satirehq/satire/internal/argtable"
)

func TestParse_Defaults(t *testing.T) {
	tbl := argtable.NewTable()
	k := tbl.Int("k", 10, "top-k", false)
	debug := tbl.Int("debug", 0, "verbosity", false)

	require.NoError(t, tbl.Parse(nil))
	assert.Equal(t, 10, *k)
	assert.Equal(t, 0, *debug)
}

func TestParse_OverridesDefaults(t *testing.T) {
	tbl := argtable.NewTable()
	k := tbl.Int("k", 10, "top-k", false)
	stem := tbl.String("outputStem", "", "output stem", true)

	require.NoError(t, tbl.Parse([]string{"k=5", "outputStem=/tmp/out"}))
	assert.Equal(t, 5, *k)
	assert.Equal(t, "/tmp/out", *stem)
	require.NoError(t, tbl.CheckRequired())
}

func TestParse_MissingRequired(t *testing.T) {
	tbl := argtable.NewTable()
	tbl.String("outputStem", "", "output stem", true)

	require.NoError(t, tbl.Parse(nil))
	err := tbl.CheckRequired()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outputStem")
}

func TestParse_UnknownArgument(t *testing.T) {
	tbl := argtable.NewTable()
	tbl.Int("k", 10, "top-k", false)

	err := tbl.Parse([]string{"bogus=1"})
	assert.Error(t, err)
}

func TestParse_NotNameValueForm(t *testing.T) {
	tbl := argtable.NewTable()
	tbl.Int("k", 10, "top-k", false)

	err := tbl.Parse([]string{"just-a-token"})
	assert.Error(t, err)
}

func TestParse_InvalidIntValue(t *testing.T) {
	tbl := argtable.NewTable()
	tbl.Int("k", 10, "top-k", false)

	err := tbl.Parse([]string{"k=notanumber"})
	assert.Error(t, err)
}

func TestParse_BoolValues(t *testing.T) {
	tbl := argtable.NewTable()
	explain := tbl.Bool("explainCounters", false, "explain counters")

	require.NoError(t, tbl.Parse([]string{"explainCounters=true"}))
	assert.True(t, *explain)

	tbl2 := argtable.NewTable()
	explain2 := tbl2.Bool("explainCounters", false, "explain counters")
	require.NoError(t, tbl2.Parse([]string{"explainCounters=1"}))
	assert.True(t, *explain2)
}

func TestParse_InvalidBoolValue(t *testing.T) {
	tbl := argtable.NewTable()
	tbl.Bool("explainCounters", false, "explain counters")

	err := tbl.Parse([]string{"explainCounters=maybe"})
	assert.Error(t, err)
}

func TestParse_FloatValue(t *testing.T) {
	tbl := argtable.NewTable()
	f := tbl.Float("threshold", 0.5, "threshold")

	require.NoError(t, tbl.Parse([]string{"threshold=0.75"}))
	assert.Equal(t, 0.75, *f)
}

func TestUsage_ListsArguments(t *testing.T) {
	tbl := argtable.NewTable()
	tbl.String("outputStem", "", "output stem", true)
	tbl.Int("numDocs", 0, "document count", true)

	usage := tbl.Usage()
	assert.Contains(t, usage, "outputStem")
	assert.Contains(t, usage, "numDocs")
	assert.Contains(t, usage, "document count")
}
