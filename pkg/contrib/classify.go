package contrib

// Levels is the number of distinct shade levels, 0 through 4.
const Levels = 5

// Classify buckets count relative to maxCount, the largest count currently
// displayed. Zero is always level 0; any positive count lands in 1..4.
func Classify(count, maxCount int) int {
	if count <= 0 {
		return 0
	}
	if maxCount <= 0 {
		return 1
	}

	ratio := float64(count) / float64(maxCount)
	switch {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.5:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return 4
	}
}
