package anim

// DefaultTiltDivisor attenuates pointer offset into card tilt. A pointer 20
// cells from a card's center shifts the card by one.
const DefaultTiltDivisor = 20

// TiltShift converts the pointer's offset from a card's center into the
// card's lean, attenuated by the divisor. Integer division keeps small
// offsets at zero so cards sit still until the pointer commits.
func TiltShift(delta, divisor int) int {
	if divisor <= 0 {
		divisor = DefaultTiltDivisor
	}
	return delta / divisor
}
