// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp_test

import (
	"strconv"
	"testing"

	"codeberg.org/oliverandrich/go-auth-service/internal/services/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	code, err := otp.Generate()

	require.NoError(t, err)
	assert.Len(t, code, otp.Length)
	assert.Regexp(t, `^[0-9]{6}$`, code)
}

func TestGenerate_LeadingZerosPreserved(t *testing.T) {
	// Codes are text: every generated value must keep its full width even
	// when a numeric parse would shorten it.
	for range 200 {
		code, err := otp.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 1000000)
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		code, err := otp.Generate()
		require.NoError(t, err)
		seen[code] = true
	}

	assert.Greater(t, len(seen), 1, "all generated codes were identical")
}
