package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice_BareJSON(t *testing.T) {
	choice, err := parseChoice(`{"product_name": "كوتشي نايك", "confidence": 0.85, "reasoning": "exact name"}`)
	require.NoError(t, err)
	require.NotNil(t, choice.ProductName)
	assert.Equal(t, "كوتشي نايك", *choice.ProductName)
	assert.Equal(t, 0.85, choice.Confidence)
	assert.Equal(t, "exact name", choice.Reasoning)
}

func TestParseChoice_CodeFence(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"product_name\": \"صندل جلد\", \"confidence\": 0.7, \"reasoning\": \"matched\"}\n```"
	choice, err := parseChoice(raw)
	require.NoError(t, err)
	require.NotNil(t, choice.ProductName)
	assert.Equal(t, "صندل جلد", *choice.ProductName)
}

func TestParseChoice_ProseAroundJSON(t *testing.T) {
	raw := `Based on the conversation, the customer wants this product: {"product_name": "كوتشي لمسة", "confidence": 0.9, "reasoning": "recently discussed"} I hope that helps.`
	choice, err := parseChoice(raw)
	require.NoError(t, err)
	require.NotNil(t, choice.ProductName)
	assert.Equal(t, "كوتشي لمسة", *choice.ProductName)
}

func TestParseChoice_NullName(t *testing.T) {
	choice, err := parseChoice(`{"product_name": null, "confidence": 0.9, "reasoning": "no specific product"}`)
	require.NoError(t, err)
	assert.Nil(t, choice.ProductName)
	assert.Equal(t, 0.9, choice.Confidence)
}

func TestParseChoice_NoneStringName(t *testing.T) {
	choice, err := parseChoice(`{"product_name": "None", "confidence": 0.6, "reasoning": "x"}`)
	require.NoError(t, err)
	assert.Nil(t, choice.ProductName, `"None" string means no product`)
}

func TestParseChoice_EmptyName(t *testing.T) {
	choice, err := parseChoice(`{"product_name": "  ", "confidence": 0.5, "reasoning": "x"}`)
	require.NoError(t, err)
	assert.Nil(t, choice.ProductName)
}

func TestParseChoice_ClampsConfidence(t *testing.T) {
	high, err := parseChoice(`{"product_name": "x", "confidence": 3.5, "reasoning": ""}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, high.Confidence)

	low, err := parseChoice(`{"product_name": "x", "confidence": -0.5, "reasoning": ""}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, low.Confidence)
}

func TestParseChoice_BracesInsideStrings(t *testing.T) {
	choice, err := parseChoice(`{"product_name": "موديل {خاص}", "confidence": 0.8, "reasoning": "has braces"}`)
	require.NoError(t, err)
	require.NotNil(t, choice.ProductName)
	assert.Equal(t, "موديل {خاص}", *choice.ProductName)
}

func TestParseChoice_SkipsMalformedBlock(t *testing.T) {
	raw := `{not json} then the real one {"product_name": "صندل", "confidence": 0.75, "reasoning": "ok"}`
	choice, err := parseChoice(raw)
	require.NoError(t, err)
	require.NotNil(t, choice.ProductName)
	assert.Equal(t, "صندل", *choice.ProductName)
}

func TestParseChoice_NoJSON(t *testing.T) {
	_, err := parseChoice("I could not determine a product from the conversation.")
	assert.ErrorIs(t, err, errNoChoice)
}

func TestParseChoice_Empty(t *testing.T) {
	_, err := parseChoice("   ")
	assert.ErrorIs(t, err, errNoChoice)
}

func TestParseChoice_UnbalancedBraces(t *testing.T) {
	_, err := parseChoice(`{"product_name": "x", "confidence": 0.8`)
	assert.ErrorIs(t, err, errNoChoice)
}
