package wdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreaterAndSmaller(t *testing.T) {
	assert.True(t, Greater{Epsilon: 0.1}.Test(1.2, 1))
	assert.False(t, Greater{Epsilon: 0.1}.Test(1.05, 1))
	assert.True(t, Smaller{Epsilon: 0.1}.Test(0.8, 1))
	assert.False(t, Smaller{Epsilon: 0.1}.Test(0.95, 1))
}

func TestComparison_Unconfigured(t *testing.T) {
	var c Comparison
	assert.False(t, c.Call(1, 0))
	assert.False(t, c.Call(0, 1))
}

func TestComparison_Rebinding(t *testing.T) {
	var c Comparison

	c.Configure(Greater{Epsilon: 0.01})
	assert.True(t, c.Call(2, 1))
	assert.False(t, c.Call(0, 1))

	c.Configure(Smaller{Epsilon: 0.01})
	assert.False(t, c.Call(2, 1), "stale Greater binding")
	assert.True(t, c.Call(0, 1))
}
