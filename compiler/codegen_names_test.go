package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "MyCounterState", toCamelCase("my_counter_state"))
	assert.Equal(t, "Tick", toCamelCase("tick"))
	assert.Equal(t, "", toCamelCase(""))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "my_counter_state", toSnakeCase("MyCounterState"))
	assert.Equal(t, "tick", toSnakeCase("tick"))
	assert.Equal(t, "n_12_count", toSnakeCase("N12Count"))
}

func TestCamelSnakeRoundTripPreservesWords(t *testing.T) {
	assert.Equal(t, "shifted_fibonacci", toSnakeCase(toCamelCase("shifted_fibonacci")))
}
