package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInicioDelDiaUsaZonaLocal(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)

	// 01:30 local is already the next day in UTC. The business day still
	// starts at local midnight, not at UTC midnight.
	ahora := time.Date(2026, 3, 15, 1, 30, 0, 0, loc)
	inicio := inicioDelDia(ahora)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, loc), inicio)
	assert.Equal(t, loc, inicio.Location())
	assert.NotEqual(t, ahora.Truncate(24*time.Hour), inicio)
}
