// Package tracking generates the customer-facing tracking codes attached to
// product orders.
package tracking

import (
	"math/big"

	"github.com/google/uuid"
)

// Prefix is the brand tag carried by every tracking code.
const Prefix = "TH"

// digits is the number of decimal digits kept after the prefix.
const digits = 8

// NewCode returns a fresh tracking code: a random 128-bit identifier rendered
// in decimal, truncated to its first 8 digits behind the brand prefix.
// Uniqueness is best effort; the pedidos table enforces it with a unique
// constraint and collisions are negligible at expected volumes.
func NewCode() string {
	id := uuid.New()
	n := new(big.Int).SetBytes(id[:])

	dec := n.String()
	for len(dec) < digits {
		dec = "0" + dec
	}
	return Prefix + dec[:digits]
}
