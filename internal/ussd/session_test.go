package ussd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoiceSnapshotResolve(t *testing.T) {
	snapshot := &ChoiceSnapshot{Items: []ChoiceItem{
		{ID: "a", Label: "First"},
		{ID: "b", Label: "Second"},
		{ID: "c", Label: "Third"},
	}}

	item, ok := snapshot.Resolve("1")
	require.True(t, ok)
	assert.Equal(t, "a", item.ID)

	item, ok = snapshot.Resolve("3")
	require.True(t, ok)
	assert.Equal(t, "c", item.ID)

	for _, input := range []string{"0", "4", "-1", "", "x", "1.5", " 1"} {
		_, ok = snapshot.Resolve(input)
		assert.False(t, ok, "input %q must not resolve", input)
	}
}

func TestIsPIN(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	invalid := []string{"", "123", "12345", "12a4", "١٢٣٤", " 123", "12 4"}

	for _, pin := range valid {
		assert.True(t, isPIN(pin), "%q should be a valid PIN", pin)
	}
	for _, pin := range invalid {
		assert.False(t, isPIN(pin), "%q should not be a valid PIN", pin)
	}
}

func TestYesNoMatching(t *testing.T) {
	assert.True(t, isYes("Y"))
	assert.True(t, isYes("y"))
	assert.True(t, isYes(" y "))
	assert.False(t, isYes("yes"))
	assert.False(t, isYes(""))

	assert.True(t, isNo("N"))
	assert.True(t, isNo("n"))
	assert.False(t, isNo("no"))
	assert.False(t, isNo(""))
}
