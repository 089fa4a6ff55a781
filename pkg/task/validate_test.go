package task

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *Date {
	dt := NewDate(y, m, d)
	return &dt
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestValidateSucceeds(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"no dates", Input{Title: "Buy milk", Description: "2%"}},
		{"due only", Input{Title: "Buy milk", Description: "2%", DueDate: datePtr(2024, 1, 10)}},
		{"completion only", Input{Title: "Buy milk", Description: "2%", CompletionDate: datePtr(2024, 1, 10)}},
		{"same day", Input{Title: "Buy milk", Description: "2%", DueDate: datePtr(2024, 1, 10), CompletionDate: datePtr(2024, 1, 10)}},
		{"completed later", Input{Title: "Buy milk", Description: "2%", DueDate: datePtr(2024, 1, 10), CompletionDate: datePtr(2024, 2, 1)}},
		{"padded text", Input{Title: "  Buy milk ", Description: "\t2%\n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validator{}.Validate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, StatusNew, got.Status)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Buy milk", got.Title)
			assert.Equal(t, "2%", got.Description)
		})
	}
}

func TestValidateAssignsUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		got, err := Validator{}.Validate(Input{Title: "t", Description: "d"})
		require.NoError(t, err)
		require.False(t, seen[got.ID], "id %s reused", got.ID)
		seen[got.ID] = true
	}
}

func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name      string
		validator Validator
		in        Input
		field     string
	}{
		{"empty title", Validator{}, Input{Description: "d"}, "title"},
		{"blank title", Validator{}, Input{Title: "   ", Description: "d"}, "title"},
		{"title checked first", Validator{}, Input{}, "title"},
		{"empty description", Validator{}, Input{Title: "t"}, "description"},
		{"blank description", Validator{}, Input{Title: "t", Description: "\n\t"}, "description"},
		{"due required", Validator{RequireDates: true}, Input{Title: "t", Description: "d"}, "dueDate"},
		{"completion required", Validator{RequireDates: true}, Input{Title: "t", Description: "d", DueDate: datePtr(2024, 1, 1)}, "completionDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.validator.Validate(tc.in)
			var mf *MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, tc.field, mf.Field)
		})
	}
}

func TestValidateRequireDatesAcceptsBoth(t *testing.T) {
	v := Validator{RequireDates: true}
	_, err := v.Validate(Input{Title: "t", Description: "d", DueDate: datePtr(2024, 1, 1), CompletionDate: datePtr(2024, 1, 2)})
	assert.NoError(t, err)
}

func TestValidateDateOrder(t *testing.T) {
	_, err := Validator{}.Validate(Input{
		Title:          "t",
		Description:    "d",
		DueDate:        datePtr(2024, 1, 10),
		CompletionDate: datePtr(2023, 12, 31),
	})
	assert.ErrorIs(t, err, ErrInvalidDateOrder)
}

// TestValidateBuyMilkScenario walks the correction flow: an inverted date pair
// is rejected, and fixing the completion date lets the task through.
func TestValidateBuyMilkScenario(t *testing.T) {
	v := Validator{NewID: seqIDs()}
	in := Input{Title: "Buy milk", Description: "2%", DueDate: datePtr(2024, 1, 10), CompletionDate: datePtr(2024, 1, 9)}

	_, err := v.Validate(in)
	require.True(t, errors.Is(err, ErrInvalidDateOrder))

	in.CompletionDate = datePtr(2024, 1, 10)
	got, err := v.Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, StatusNew, got.Status)
}

func TestValidateDoesNotAliasInputDates(t *testing.T) {
	due := NewDate(2024, 1, 10)
	got, err := Validator{}.Validate(Input{Title: "t", Description: "d", DueDate: &due})
	require.NoError(t, err)
	due.Day = 20
	assert.Equal(t, 10, got.DueDate.Day)
}
