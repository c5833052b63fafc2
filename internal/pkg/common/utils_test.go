package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("12345678"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcd123456wxyz"))
}

func TestMaskedKeyField_SurvivesFilter(t *testing.T) {
	fields := filterFields([]zap.Field{
		MaskedKeyField("spoonacular", "abcd123456wxyz"),
		zap.String("spoonacular_api_key", "abcd123456wxyz"),
		zap.String("apiKey", "abcd123456wxyz"),
	})

	require.Len(t, fields, 1)
	assert.Equal(t, "spoonacular_key_masked", fields[0].Key)
	assert.Equal(t, "abcd...wxyz", fields[0].String)
}
