package light

// Scale is the number of mask cells per tile edge.
const Scale = 3

// Mask is a soft-edged darkness map at Scale times the tile resolution.
// 0 is fully lit and 255 is opaque.
type Mask struct {
	W, H   int
	values []uint8
}

// At returns the mask value at (x, y); outside the mask is opaque.
func (m *Mask) At(x, y int) uint8 {
	if m == nil || x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 255
	}
	return m.values[y*m.W+x]
}

// buildMask splats every tile below ceiling, blurs wide, lays beam
// segments on top and blurs again narrowly so the tile grid does not show.
func buildMask(field Field, segs []Segment, ceiling int) *Mask {
	w, h := len(field), 0
	if w > 0 {
		h = len(field[0])
	}
	m := &Mask{W: w * Scale, H: h * Scale}
	vals := make([]int, m.W*m.H)
	for k := range vals {
		vals[k] = Full
	}

	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			if field[i][j] >= ceiling {
				continue
			}
			splat(vals, m.W, i, j, field[i][j])
		}
	}
	vals = blur(vals, m.W, m.H, 2)

	for _, s := range segs {
		splat(vals, m.W, s.I, s.J, 0)
	}
	vals = blur(vals, m.W, m.H, 1)

	m.values = make([]uint8, len(vals))
	for k, v := range vals {
		m.values[k] = uint8(clamp(v, 0, Full))
	}
	return m
}

// splat lowers the Scale×Scale block of tile (i, j) to v.
func splat(vals []int, stride, i, j, v int) {
	for y := j * Scale; y < (j+1)*Scale; y++ {
		for x := i * Scale; x < (i+1)*Scale; x++ {
			k := y*stride + x
			if v < vals[k] {
				vals[k] = v
			}
		}
	}
}

// blur is a box blur of the given radius. Cells past the edge count as
// opaque.
func blur(src []int, w, h, radius int) []int {
	dst := make([]int, len(src))
	n := (2*radius + 1) * (2*radius + 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for oy := -radius; oy <= radius; oy++ {
				for ox := -radius; ox <= radius; ox++ {
					sx, sy := x+ox, y+oy
					if sx < 0 || sy < 0 || sx >= w || sy >= h {
						sum += Full
						continue
					}
					sum += src[sy*w+sx]
				}
			}
			dst[y*w+x] = sum / n
		}
	}
	return dst
}
