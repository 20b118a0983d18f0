package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"backend/internal/models"
)

func TestNormalizeExperience(t *testing.T) {
	testCases := []struct {
		name     string
		raw      models.Field
		expected float64
	}{
		{"absent", models.Field{}, 0},
		{"empty", models.Text(""), 0},
		{"sentinel", models.Text("NA"), 0},
		{"less than one year", models.Text("Less than 1 year"), 0.5},
		{"more than fifty", models.Text("More than 50 years"), 50},
		{"integer string", models.Text("7"), 7},
		{"decimal string", models.Text("7.5"), 7.5},
		{"leading number", models.Text(" 12 years"), 12},
		{"unparsable", models.Text("a lot"), 0},
		{"json number", models.Number(3), 3},
		{"json zero", models.Number(0), 0},
		{"beyond fifty is kept", models.Text("60"), 60},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeExperience(tc.raw))
		})
	}
}

func TestNormalizeExperience_ZeroMeansMissingOrZero(t *testing.T) {
	// "0 years" and "no usable answer" are indistinguishable after normalization.
	assert.Equal(t, NormalizeExperience(models.Text("0")), NormalizeExperience(models.Text("unknown")))
	assert.Equal(t, NormalizeExperience(models.Text("0")), NormalizeExperience(models.Field{}))
}

func TestNormalizeExperience_IsTotal(t *testing.T) {
	inputs := []string{"", "NA", "-", "e5", ".", "+", "Infinity", "-Infinity", "NaN", "1e400", "½"}
	for _, in := range inputs {
		v := NormalizeExperience(models.Text(in))
		assert.False(t, math.IsNaN(v), "input %q", in)
	}
}

func TestNormalizeCompensation(t *testing.T) {
	testCases := []struct {
		name     string
		raw      models.Field
		expected float64
		ok       bool
	}{
		{"thousands separators", models.Text("50,000"), 50000, true},
		{"decimal", models.Text("1,234.5"), 1234.5, true},
		{"json number", models.Number(72000), 72000, true},
		{"trailing text", models.Text("80000 per year"), 80000, true},
		{"unparsable", models.Text("lots"), 0, false},
		{"zero", models.Text("0"), 0, false},
		{"negative", models.Text("-5"), 0, false},
		{"infinite", models.Text("Infinity"), 0, false},
		{"sentinel", models.Text("NA"), 0, false},
		{"absent", models.Field{}, 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := NormalizeCompensation(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestResolveCurrencyRate(t *testing.T) {
	testCases := []struct {
		raw      models.Field
		expected float64
	}{
		{models.Text("USD\tUnited States dollar"), 0.85},
		{models.Text("EUR European Euro"), 1},
		{models.Text("EUR"), 1},
		{models.Text("GBP\tPound sterling"), 1.15},
		{models.Text("CAD\tCanadian dollar"), 0.65},
		{models.Text("JPY\tJapanese yen"), 1},
		{models.Field{}, 1},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ResolveCurrencyRate(tc.raw), "currency %q", tc.raw.Raw)
	}
}

func TestConvertToReferenceCurrency_Monotonic(t *testing.T) {
	for _, rate := range []float64{0.65, 0.85, 1, 1.15} {
		prev := math.Inf(-1)
		for amount := 0.0; amount <= 400000; amount += 12345.67 {
			v := ConvertToReferenceCurrency(amount, rate)
			assert.GreaterOrEqual(t, v, prev, "rate %v amount %v", rate, amount)
			prev = v
		}
	}
}

func TestReferenceCompensation(t *testing.T) {
	t.Run("Should convert USD to EUR", func(t *testing.T) {
		rec := salaried("north america", "United States of America", "5", "100000", "USD\tUnited States dollar")
		v, ok := ReferenceCompensation(rec)
		assert.True(t, ok)
		assert.Equal(t, "85000.00", FormatMoney(v))
	})

	t.Run("Should reject amounts outside the plausibility band", func(t *testing.T) {
		for _, comp := range []string{"400000", "9999", "300001"} {
			_, ok := ReferenceCompensation(salaried("europe", "France", "5", comp, "EUR"))
			assert.False(t, ok, "comp %s", comp)
		}
	})

	t.Run("Should apply the band after conversion", func(t *testing.T) {
		// 12000 CAD is 7800 EUR.
		_, ok := ReferenceCompensation(salaried("north america", "Canada", "5", "12000", "CAD"))
		assert.False(t, ok)
	})

	t.Run("Should accept the band edges", func(t *testing.T) {
		assert.True(t, IsPlausibleCompensation(MinCompensation))
		assert.True(t, IsPlausibleCompensation(MaxCompensation))
		assert.False(t, IsPlausibleCompensation(MinCompensation-0.01))
		assert.False(t, IsPlausibleCompensation(MaxCompensation+0.01))
	})
}

func TestSplitMultiValue(t *testing.T) {
	assert.Equal(t, []string{"AWS", "GCP", "Azure"}, SplitMultiValue(models.Text("AWS; GCP ;Azure")))
	assert.Equal(t, []string{"AWS"}, SplitMultiValue(models.Text("AWS;;")))
	assert.Empty(t, SplitMultiValue(models.Text("NA")))
	assert.Empty(t, SplitMultiValue(models.Field{}))
}
