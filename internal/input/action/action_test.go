package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	for _, a := range All() {
		got, err := Parse(a.String())
		require.NoError(t, err, a.String())
		assert.Equal(t, a, got)
	}
}

func TestParseSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"Move-Left", MoveLeft},
		{" select next ", SelectNext},
		{"left", MoveLeft},
		{"rotate_selections", Rotate},
		{"escape", Abort},
		{"none", None},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("fly_away")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestString(t *testing.T) {
	assert.Equal(t, "delete_line", DeleteLine.String())
	assert.Equal(t, "action(200)", Action(200).String())
}

func TestClassification(t *testing.T) {
	assert.True(t, MoveUp.IsMotion())
	assert.True(t, ExtendEnd.IsMotion())
	assert.False(t, AddSelection.IsMotion())

	assert.True(t, ExtendStart.IsExtend())
	assert.False(t, Start.IsExtend())

	assert.True(t, Delete.IsEdit())
	assert.True(t, Rotate.IsEdit())
	assert.False(t, Insert.IsEdit())
	assert.False(t, Undo.IsEdit())

	assert.True(t, Quit.IsApplication())
	assert.False(t, Confirm.IsApplication())
}
