package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_ReturnsIndependentCopies(t *testing.T) {
	a := Template(TierSuper)
	require.NotEmpty(t, a)
	a[1].OptionText = "changed"
	*a[1].Command = CmdRunCode

	b := Template(TierSuper)
	assert.Equal(t, "Edit Menu", b[1].OptionText)
	assert.Equal(t, CmdEditMenu, *b[1].Command)
}

func TestTemplate_SlotsAreUnique(t *testing.T) {
	for _, tier := range []Tier{TierSuper, TierOrdinary} {
		seen := map[[2]int16]bool{}
		for _, o := range Template(tier) {
			key := [2]int16{o.MenuID, o.OptionNumber}
			assert.False(t, seen[key], "%s tier repeats slot %v", tier, key)
			seen[key] = true
		}
	}
	assert.Greater(t, len(Template(TierSuper)), len(Template(TierOrdinary)))
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" Super ")
	require.NoError(t, err)
	assert.Equal(t, TierSuper, tier)

	tier, err = ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierOrdinary, tier)

	_, err = ParseTier("admin")
	assert.Error(t, err)
}
