package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid", input: "2025-06-15", want: NewDate(2025, time.June, 15)},
		{name: "leap day", input: "2024-02-29", want: NewDate(2024, time.February, 29)},
		{name: "not a date", input: "june 15", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want.Time))
		})
	}
}

func TestDate_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		b, err := json.Marshal(NewDate(2025, time.March, 1))
		require.NoError(t, err)
		assert.Equal(t, `"2025-03-01"`, string(b))
	})

	t.Run("marshal zero", func(t *testing.T) {
		b, err := json.Marshal(Date{})
		require.NoError(t, err)
		assert.Equal(t, `""`, string(b))
	})

	t.Run("unmarshal plain date", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2026-01-20"`), &d))
		assert.Equal(t, 2026, d.Year())
		assert.Equal(t, time.January, d.Month())
		assert.Equal(t, 20, d.Day())
	})

	t.Run("unmarshal rfc3339", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2025-08-15T00:00:00Z"`), &d))
		assert.Equal(t, "2025-08-15", d.String())
	})

	t.Run("unmarshal empty keeps zero", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`""`), &d))
		assert.True(t, d.IsZero())
	})

	t.Run("unmarshal garbage errors", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"next year"`), &d))
	})
}
