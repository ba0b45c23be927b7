package reliability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, SkipPolicy{}, p)

	p, err = PolicyFor(EstimationFixed, 1.5, 250)
	require.NoError(t, err)
	assert.Equal(t, FixedPolicy{Hours: 1.5, Customers: 250}, p)

	_, err = PolicyFor(EstimationFixed, -1, 0)
	assert.Error(t, err)

	_, err = PolicyFor("random", 0, 0)
	assert.Error(t, err)
}
