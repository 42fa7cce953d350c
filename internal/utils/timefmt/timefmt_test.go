package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	assert.Equal(t, "0s", Age(0))
	assert.Equal(t, "0s", Age(-5*time.Second))
	assert.Equal(t, "59s", Age(59*time.Second))
	assert.Equal(t, "1m", Age(60*time.Second))
	assert.Equal(t, "59m", Age(59*time.Minute+59*time.Second))
	assert.Equal(t, "1h", Age(time.Hour))
	assert.Equal(t, "23h", Age(23*time.Hour+30*time.Minute))
	assert.Equal(t, "1d", Age(24*time.Hour))
	assert.Equal(t, "30d", Age(30*24*time.Hour))
}
