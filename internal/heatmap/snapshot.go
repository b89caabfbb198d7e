package heatmap

// Snapshot is an immutable, quantized heatmap. Counts is row-major.
type Snapshot struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Scale  int   `json:"scale"`
	Counts []int `json:"counts"`
}

// At returns the count at (x, y), or 0 outside the grid.
func (s Snapshot) At(x, y int) int {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return 0
	}
	return s.Counts[y*s.Width+x]
}

// Max returns the largest count.
func (s Snapshot) Max() int {
	m := 0
	for _, c := range s.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Empty reports whether no cell is populated.
func (s Snapshot) Empty() bool { return s.Max() == 0 }

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Counts = append([]int(nil), s.Counts...)
	return c
}
