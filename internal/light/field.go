package light

// Full is the ambient level of a tile no source reaches.
const Full = 255

// Field is a per-tile grid indexed [i][j].
type Field [][]int

// NewField returns a w×h field with every cell set to v.
func NewField(w, h, v int) Field {
	f := make(Field, w)
	for i := range f {
		f[i] = make([]int, h)
		for j := range f[i] {
			f[i][j] = v
		}
	}
	return f
}

// In reports whether (i, j) is inside the field.
func (f Field) In(i, j int) bool {
	return i >= 0 && i < len(f) && j >= 0 && j < len(f[i])
}

// Accumulate adds d into f cell by cell, clamping every cell to [0, Full].
func (f Field) Accumulate(d Field) {
	for i := range f {
		for j := range f[i] {
			f[i][j] = clamp(f[i][j]+d[i][j], 0, Full)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
