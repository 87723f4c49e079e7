package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountOutcome(t *testing.T) {
	actions := []RulesetAction{
		{Zone: "a.example", ID: "rs-1", Outcome: ActionDeleted},
		{Zone: "a.example", ID: "rs-2", Outcome: ActionSkipped},
		{Zone: "b.example", ID: "rs-3", Outcome: ActionDeleted},
		{Zone: "b.example", ID: "rs-4", Outcome: ActionFailed},
	}

	assert.Equal(t, 2, CountOutcome(actions, ActionDeleted))
	assert.Equal(t, 1, CountOutcome(actions, ActionSkipped))
	assert.Equal(t, 1, CountOutcome(actions, ActionFailed))
	assert.Equal(t, 0, CountOutcome(actions, ActionPlanned))
}

func TestWriteTablesHandleEmptyInput(t *testing.T) {
	require.NoError(t, WriteCountryTable(nil))
	require.NoError(t, WriteCleanupTable(nil))
}
