package badge

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_FormatText tests the badge text mapping over the whole
// integer range: hidden at zero, digits up to the cap, capped above.
func TestProperty_FormatText(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non_positive_totals_hide_the_badge", prop.ForAll(
		func(total int) bool {
			return FormatText(-total) == ""
		},
		gen.IntRange(0, 1<<30),
	))

	properties.Property("totals_up_to_cap_render_as_digits", prop.ForAll(
		func(total int) bool {
			return FormatText(total) == strconv.Itoa(total)
		},
		gen.IntRange(1, 999),
	))

	properties.Property("totals_above_cap_render_capped", prop.ForAll(
		func(total int) bool {
			return FormatText(total) == "999+"
		},
		gen.IntRange(1000, 1<<30),
	))

	properties.TestingRun(t)
}

func TestBoard(t *testing.T) {
	board := NewBoard()

	initial := board.Current()
	if initial.Text != "" || initial.Icon != IconDefault {
		t.Errorf("new board = %+v, want cleared state", initial)
	}

	board.Publish("42", "#d33", IconActive)
	got := board.Current()
	if got.Text != "42" || got.Color != "#d33" || got.Icon != IconActive {
		t.Errorf("published = %+v", got)
	}

	board.Clear()
	got = board.Current()
	if got.Text != "" || got.Color != "" || got.Icon != IconDefault {
		t.Errorf("cleared = %+v, want empty text and default icon", got)
	}
}
