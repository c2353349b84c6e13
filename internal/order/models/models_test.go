package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "brewleaf/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("LOST")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAddress(t *testing.T) {
	a := Address{Name: " Jane ", Line1: "1 Bean St", City: "Portland", PostalCode: "97201"}
	a.Normalize()
	require.NoError(t, a.Validate())
	assert.Equal(t, "Jane", a.Name)
	assert.Equal(t, "US", a.Country)

	missing := Address{Name: "Jane", City: "Portland", PostalCode: "97201"}
	assert.True(t, dErrors.HasCode(missing.Validate(), dErrors.CodeValidation))
}
