package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionValidate(t *testing.T) {
	cases := []struct {
		name       string
		sel        Selection
		wantReason string
	}{
		{"position ok", NewPositionSelection([]int{1, 3}, []int{1, 3}), ""},
		{"any ok", NewAnySelection([]int{1, 2, 3}, 1), ""},
		{"group ok", NewGroupSelection([]int{4, 7}), ""},

		{"unknown method", Selection{Method: "EXACTA", Numbers: []int{1}}, ReasonBadMethod},
		{"no numbers", NewGroupSelection(nil), ReasonTooFewNumbers},
		{"number out of range", NewAnySelection([]int{0, 2}, 1), ReasonNumberOutOfRange},
		{"number above max", NewAnySelection([]int{12}, 1), ReasonNumberOutOfRange},
		{"duplicate numbers", NewAnySelection([]int{3, 3}, 1), ReasonDuplicateNumbers},

		{"position count mismatch", NewPositionSelection([]int{1, 2}, []int{1}), ReasonPositionMismatch},
		{"position without positions", NewPositionSelection([]int{1}, nil), ReasonPositionMismatch},
		{"position out of range", NewPositionSelection([]int{1}, []int{6}), ReasonPositionOutOfRange},
		{"duplicate position", NewPositionSelection([]int{1, 2}, []int{2, 2}), ReasonPositionOutOfRange},

		{"selected_count zero", NewAnySelection([]int{1, 2}, 0), ReasonSelectedCountRange},
		{"selected_count above drawn", NewAnySelection([]int{1, 2, 3, 4, 5, 6}, 6), ReasonSelectedCountRange},
		{"fewer numbers than selected_count", NewAnySelection([]int{1, 2}, 3), ReasonTooFewNumbers},

		{"group with one number", NewGroupSelection([]int{5}), ReasonTooFewNumbers},
		{"group above drawn count", NewGroupSelection([]int{1, 2, 3, 4, 5, 6}), ReasonTooFewNumbers},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sel.Validate()
			if tc.wantReason == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.wantReason, ReasonOf(err))
		})
	}
}

func TestValidateWinningNumbers(t *testing.T) {
	require.NoError(t, ValidateWinningNumbers([]int{1, 2, 3, 4, 5}))
	require.NoError(t, ValidateWinningNumbers([]int{2, 5, 7, 9, 11}))

	assert.ErrorIs(t, ValidateWinningNumbers([]int{1, 2, 3, 4}), ErrInvariant)
	assert.ErrorIs(t, ValidateWinningNumbers([]int{1, 2, 3, 4, 5, 6}), ErrInvariant)
	assert.ErrorIs(t, ValidateWinningNumbers([]int{0, 2, 3, 4, 5}), ErrInvariant)
	assert.ErrorIs(t, ValidateWinningNumbers([]int{1, 2, 3, 4, 12}), ErrInvariant)
	assert.ErrorIs(t, ValidateWinningNumbers([]int{1, 2, 2, 4, 5}), ErrInvariant)
	assert.ErrorIs(t, ValidateWinningNumbers([]int{5, 4, 3, 2, 1}), ErrInvariant)
}
