package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateCardCode(t *testing.T) {
	at := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "S2-2024", RateCardCode("Standard 2024", at))
	assert.Equal(t, "PP-2024", RateCardCode("Premium Partner", at))
	assert.Equal(t, "ABCDEF-2024", RateCardCode("Alpha Bravo Charlie Delta Echo Foxtrot Golf", at))
	assert.Equal(t, "-2024", RateCardCode("", at))
}
