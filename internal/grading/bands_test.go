package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

func TestValidateBandsAcceptsGaplessScale(t *testing.T) {
	assert.Empty(t, ValidateBands("grades", gapless()))
	assert.Empty(t, Gaps(gapless()))
}

func TestValidateBandsReportsOverlap(t *testing.T) {
	bands := []Band{
		{Grade: "A", MinPercentage: 80},
		{Grade: "B", MinPercentage: 70, MaxPercentage: f(80)},
	}

	errs := ValidateBands("grades", bands)
	require.Len(t, errs, 1)
	assert.Equal(t, "grades.1.min_percentage", errs[0].Field)
	assert.Equal(t, validation.KindOverlappingBands, errs[0].Kind)
	assert.Equal(t, "Grade B (70-80) overlaps grade A (80 and above).", errs[0].Message)
}

func TestValidateBandsReportsInvertedBand(t *testing.T) {
	bands := []Band{
		{Grade: "A", MinPercentage: 90, MaxPercentage: f(80)},
		{Grade: "B", MinPercentage: 0, MaxPercentage: f(100)},
	}

	errs := ValidateBands("grades", bands)
	require.Len(t, errs, 1)
	assert.Equal(t, "grades.0.max_percentage", errs[0].Field)
	assert.Equal(t, validation.KindOrderingViolation, errs[0].Kind)
}

func TestValidateBandsVerdictIgnoresOrder(t *testing.T) {
	sets := [][]Band{
		gapless(),
		{
			{Grade: "A", MinPercentage: 80},
			{Grade: "B", MinPercentage: 60, MaxPercentage: f(80)},
			{Grade: "C", MinPercentage: 0, MaxPercentage: f(59.99)},
		},
		{
			{Grade: "A", MinPercentage: 50, MaxPercentage: f(40)},
			{Grade: "B", MinPercentage: 0, MaxPercentage: f(49.99)},
		},
	}
	for _, bands := range sets {
		want := len(ValidateBands("grades", bands)) == 0
		for a := range bands {
			for b := a + 1; b < len(bands); b++ {
				swapped := append([]Band(nil), bands...)
				swapped[a], swapped[b] = swapped[b], swapped[a]
				assert.Equal(t, want, len(ValidateBands("grades", swapped)) == 0)
			}
		}
	}
}

func TestGaps(t *testing.T) {
	bands := []Band{
		{Grade: "A", MinPercentage: 80, MaxPercentage: f(95)},
		{Grade: "C", MinPercentage: 20, MaxPercentage: f(49.99)},
		{Grade: "B", MinPercentage: 60, MaxPercentage: f(79.99)},
	}

	assert.Equal(t, []Gap{
		{From: 0, To: 19.99},
		{From: 50, To: 59.99},
		{From: 95.01, To: 100},
	}, Gaps(bands))

	assert.Equal(t, []Gap{{From: 0, To: 100}}, Gaps(nil))
}

func TestCheckDefaults(t *testing.T) {
	scales := []Scale{
		{Name: "Standard", SchoolID: "s1", IsDefault: true},
		{Name: "Other", SchoolID: "s2", IsDefault: true},
		{Name: "Legacy", SchoolID: "s1", IsDefault: false},
		{Name: "Extra", SchoolID: "s1", IsDefault: true},
	}

	errs := CheckDefaults(scales)
	require.Len(t, errs, 1)
	assert.Equal(t, "scales.3.is_default", errs[0].Field)
	assert.Equal(t, validation.KindDuplicateValue, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "Standard")

	assert.Empty(t, CheckDefaults(scales[:3]))
}
