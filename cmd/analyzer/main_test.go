package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatorsFlagDefault(t *testing.T) {
	f := newRootCmd().Flags().Lookup("estimators")
	require.NotNil(t, f)
	assert.Equal(t, "0", f.DefValue)
}
