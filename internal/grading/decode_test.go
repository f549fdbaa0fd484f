package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandsFromSubmission(t *testing.T) {
	bands, err := BandsFromSubmission([]interface{}{
		map[string]interface{}{"grade": "A", "label": "Excellent", "min_percentage": float64(85), "max_percentage": nil, "gpa_value": "4", "order": float64(1)},
		map[string]interface{}{"grade": "B", "min_percentage": "70", "max_percentage": float64(84.99)},
	})
	require.NoError(t, err)
	require.Len(t, bands, 2)

	assert.Equal(t, "A", bands[0].Grade)
	assert.Equal(t, "Excellent", *bands[0].Label)
	assert.Nil(t, bands[0].MaxPercentage)
	assert.Equal(t, float64(4), *bands[0].GPAValue)
	assert.Equal(t, 1, *bands[0].Order)
	assert.Equal(t, float64(70), bands[1].MinPercentage)
	assert.Equal(t, 84.99, *bands[1].MaxPercentage)
	assert.Nil(t, bands[1].Label)
}

func TestBandsFromSubmissionRejectsMalformedInput(t *testing.T) {
	_, err := BandsFromSubmission("A,B,C")
	assert.Error(t, err)

	_, err = BandsFromSubmission([]interface{}{"A"})
	assert.Error(t, err)

	_, err = BandsFromSubmission([]interface{}{map[string]interface{}{"grade": "A"}})
	assert.Error(t, err)
}
