// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package otp generates one-time passcodes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in a generated code.
const Length = 6

var max = big.NewInt(1000000)

// Generate returns a 6-digit numeric code drawn uniformly from
// 000000-999999. Leading zeros are preserved; the code is text, never a
// number.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
