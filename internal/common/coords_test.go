package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinates(t *testing.T) {
	c := Coordinates{Lat: 39.90423, Lon: 116.40739}
	assert.True(t, c.Valid())
	assert.Equal(t, "39.9042,116.4074", c.Key())
	assert.Equal(t, "(39.9042, 116.4074)", c.String())

	assert.False(t, Coordinates{Lat: 91}.Valid())
	assert.False(t, Coordinates{Lon: -180.5}.Valid())
	assert.False(t, Coordinates{Lat: math.NaN()}.Valid())
	assert.True(t, Coordinates{Lat: -90, Lon: 180}.Valid())
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())
}
