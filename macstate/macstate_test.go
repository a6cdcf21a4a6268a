package macstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageMarkerEncryptionMapDefaultsToClear(t *testing.T) {
	m := NewUsageMarkerEncryptionMap()
	assert.Equal(t, byte(0), m.Get(12))
}

func TestUsageMarkerEncryptionMapSetAndGet(t *testing.T) {
	m := NewUsageMarkerEncryptionMap()
	m.Set(12, 2)
	assert.Equal(t, byte(2), m.Get(12))
	assert.Equal(t, byte(0), m.Get(13))
}

func TestUsageMarkerEncryptionMapMasksOutOfRangeInputs(t *testing.T) {
	m := NewUsageMarkerEncryptionMap()
	m.Set(12, 7)
	assert.Equal(t, byte(3), m.Get(12))
}
