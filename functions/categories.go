package functions

func clampFormality(level float64) int {
	n := int(level + 0.5)
	switch {
	case n < 1:
		return 1
	case n > 5:
		return 5
	default:
		return n
	}
}
