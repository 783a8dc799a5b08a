package footprint

// Rotate maps index into [0, length) by wrapping in either direction, so a
// cursor moved past either end of a result list lands on the other end.
// length must be positive.
func Rotate(length, index int) int {
	if length <= 0 {
		panic("footprint: Rotate called with non-positive length")
	}
	return ((index % length) + length) % length
}
