package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Usable(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  bool
	}{
		{"absent", Field{}, false},
		{"empty string", Text(""), false},
		{"NA sentinel", Text("NA"), false},
		{"numeric zero", Number(0), false},
		{"string zero", Text("0"), true},
		{"numeric value", Number(12), true},
		{"text value", Text("France"), true},
		{"lower-case na", Text("na"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Usable())
		})
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	t.Run("Should keep strings as text", func(t *testing.T) {
		var f Field
		require.NoError(t, json.Unmarshal([]byte(`"Less than 1 year"`), &f))
		assert.Equal(t, Text("Less than 1 year"), f)
	})

	t.Run("Should mark numbers as numeric", func(t *testing.T) {
		var f Field
		require.NoError(t, json.Unmarshal([]byte(`3.5`), &f))
		assert.True(t, f.Present)
		assert.True(t, f.Numeric)
		assert.Equal(t, "3.5", f.Raw)
	})

	t.Run("Should treat null as absent", func(t *testing.T) {
		f := Text("stale")
		require.NoError(t, json.Unmarshal([]byte(`null`), &f))
		assert.False(t, f.Present)
	})

	t.Run("Should round-trip through MarshalJSON", func(t *testing.T) {
		b, err := json.Marshal(struct {
			A Field `json:"a"`
			B Field `json:"b"`
			C Field `json:"c"`
		}{Text("x"), Number(7), Field{}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":"x","b":7,"c":null}`, string(b))
	})
}

func TestSurveyRecord_UnmarshalJSON(t *testing.T) {
	var rec SurveyRecord
	err := json.Unmarshal([]byte(`{
		"Country": "Canada",
		"WorkExp": 12,
		"CompTotal": "95,000",
		"Currency": "CAD\tCanadian dollar",
		"DevType": "Developer, full-stack",
		"OpSysProfessionaluse": "Linux;Windows",
		"ResponseId": 42
	}`), &rec)
	require.NoError(t, err)

	assert.Equal(t, "Canada", rec.Country.Raw)
	assert.Equal(t, Number(12), rec.WorkExp)
	assert.Equal(t, "95,000", rec.Get(FieldCompTotal).Raw)
	assert.Equal(t, "Developer, full-stack", rec.Get(FieldDevType).Raw)
	assert.Equal(t, "Linux;Windows", rec.Get(FieldOpSys).Raw)
	assert.False(t, rec.EdLevel.Present)
	assert.False(t, rec.Get(FieldPlatforms).Present)
	assert.False(t, rec.Get("ResponseId").Present)
	assert.Empty(t, rec.Continent)
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection()
	assert.Equal(t, "all", sel.Continent)
	assert.Equal(t, "All", sel.Country)
	assert.Equal(t, ExperienceAll, sel.Experience)
	assert.Equal(t, "All", sel.DevType)
}
