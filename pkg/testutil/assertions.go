package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
)

// AssertInvalidInput checks that err is a user-correctable assessment failure
// whose message names feature.
func AssertInvalidInput(t *testing.T, err error, feature string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidInput, service.KindOf(err), "error kind for %v", err)
	assert.Contains(t, err.Error(), feature)
}

// AssertSystemFault checks that err is an assessment failure the caller
// cannot fix by changing the answers.
func AssertSystemFault(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, service.KindSystemFault, service.KindOf(err), "error kind for %v", err)
}
