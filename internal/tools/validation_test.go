package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(fields map[string]any) map[string]any { return fields }

func TestValidateSequenceSteps(t *testing.T) {
	tests := []struct {
		name    string
		steps   []any
		update  bool
		wantErr string
	}{
		{
			name:  "sequential steps",
			steps: []any{step(map[string]any{"order": float64(2)}), step(map[string]any{"order": float64(1)})},
		},
		{
			name:    "missing order",
			steps:   []any{step(map[string]any{"email_subject": "hi"})},
			wantErr: "item 1 is missing 'order'",
		},
		{
			name:    "gap in orders",
			steps:   []any{step(map[string]any{"order": float64(1)}), step(map[string]any{"order": float64(3)})},
			wantErr: "orders must be sequential starting at 1",
		},
		{
			name:    "not an object",
			steps:   []any{"step"},
			wantErr: "item 1 must be an object",
		},
		{
			name: "variant with parent order on create",
			steps: []any{
				step(map[string]any{"order": float64(1)}),
				step(map[string]any{"order": float64(2), "variant": true, "variant_from_step": float64(1)}),
			},
		},
		{
			name: "variant with both references on create",
			steps: []any{
				step(map[string]any{"order": float64(1), "variant": true, "variant_from_step": float64(1), "variant_from_step_id": float64(5)}),
			},
			wantErr: "sets both variant_from_step and variant_from_step_id",
		},
		{
			name:    "variant without parent on create",
			steps:   []any{step(map[string]any{"order": float64(1), "variant": true})},
			wantErr: "needs variant_from_step or variant_from_step_id",
		},
		{
			name:    "variant by order on update",
			steps:   []any{step(map[string]any{"order": float64(1), "variant": true, "variant_from_step": float64(1)})},
			update:  true,
			wantErr: "needs variant_from_step_id",
		},
		{
			name:   "variant by id on update",
			steps:  []any{step(map[string]any{"order": float64(1), "variant": true, "variant_from_step_id": float64(9)})},
			update: true,
		},
		{
			name:  "null references count as absent",
			steps: []any{step(map[string]any{"order": float64(1), "variant_from_step": nil, "variant_from_step_id": float64(2)})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSequenceSteps(tt.steps, tt.update)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func fullSchedule() map[string]any {
	s := map[string]any{"start_time": "09:00", "end_time": "17:00", "timezone": "America/New_York"}
	for _, d := range scheduleDays {
		s[d] = true
	}
	return s
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, validateSchedule(fullSchedule(), false))

	err := validateSchedule(fullSchedule(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save_as_template")

	s := fullSchedule()
	s["save_as_template"] = false
	assert.NoError(t, validateSchedule(s, true))

	s = fullSchedule()
	delete(s, "sunday")
	delete(s, "timezone")
	err = validateSchedule(s, false)
	require.Error(t, err)
	assert.Equal(t, "schedule is missing required field(s): sunday, timezone.", err.Error())
}

func TestValidateDay(t *testing.T) {
	day, err := validateDay(args{"day": "tomorrow"})
	require.NoError(t, err)
	assert.Equal(t, "tomorrow", day)

	_, err = validateDay(args{"day": "yesterday"})
	assert.EqualError(t, err, "Argument 'day' must be one of today, tomorrow, day_after_tomorrow.")

	_, err = validateDay(args{})
	assert.EqualError(t, err, "Missing required argument 'day'.")
}
