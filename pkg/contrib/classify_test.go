package contrib

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		count, max int
		want       int
	}{
		{count: 0, max: 0, want: 0},
		{count: 0, max: 10, want: 0},
		{count: -3, max: 10, want: 0},
		{count: 5, max: 0, want: 1},
		{count: 1, max: 20, want: 1},
		{count: 5, max: 20, want: 1},
		{count: 6, max: 20, want: 2},
		{count: 10, max: 20, want: 2},
		{count: 11, max: 20, want: 3},
		{count: 15, max: 20, want: 3},
		{count: 16, max: 20, want: 4},
		{count: 20, max: 20, want: 4},
		{count: 1, max: 1, want: 4},
	}

	for _, tt := range tests {
		if got := Classify(tt.count, tt.max); got != tt.want {
			t.Errorf("Classify(%d, %d) = %d, want %d", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestClassifyRange(t *testing.T) {
	for maxCount := 0; maxCount <= 40; maxCount++ {
		prev := 0
		for count := 0; count <= maxCount+5; count++ {
			level := Classify(count, maxCount)
			if level < 0 || level >= Levels {
				t.Fatalf("Classify(%d, %d) = %d, out of range", count, maxCount, level)
			}
			if count > 0 && level == 0 {
				t.Errorf("Classify(%d, %d) = 0 for a positive count", count, maxCount)
			}
			if level < prev {
				t.Errorf("Classify(%d, %d) = %d, lower than previous %d", count, maxCount, level, prev)
			}
			prev = level
		}
	}
}

func TestClassifyVisibleWindowAllZero(t *testing.T) {
	// Old activity outside the window must not influence shading.
	m := mapOf(t, map[string]int{
		"2023-01-03": 40,
		"2024-06-02": 0,
		"2024-06-08": 0,
	})
	grid := BuildGrid(m, 1)
	maxCount := grid.Max()
	if maxCount != 0 {
		t.Fatalf("Max() = %d, want 0", maxCount)
	}
	for _, w := range grid {
		for dow, c := range w {
			if level := Classify(c, maxCount); level != 0 {
				t.Errorf("day %d level = %d, want 0", dow, level)
			}
		}
	}
}
