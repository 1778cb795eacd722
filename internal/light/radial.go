package light

import "math"

// radialDelta casts rays from the source to every cell on the boundary of a
// square of half-width Radius. Each ray stops at the first blocked tile;
// every tile before it gets the source's intensity.
func (wd world) radialDelta(src Source, em *Emission) Field {
	delta := NewField(wd.w, wd.h, 0)
	if !src.Core().Visible || em.Radius <= 0 {
		return delta
	}

	ci, cj := wd.cellOf(src)
	self := src.Core().ID()
	r := em.Radius

	for _, t := range squareBoundary(ci, cj, r) {
		vx, vy := float64(t.I-ci), float64(t.J-cj)
		steps := int(math.Ceil(math.Hypot(vx, vy)))
		for s := 0; s <= steps; s++ {
			f := float64(s) / float64(steps)
			i := ci + int(math.Round(vx*f))
			j := cj + int(math.Round(vy*f))
			if wd.blocked(i, j, self) {
				break
			}
			v := em.Intensity
			if em.Attenuate {
				d := math.Hypot(float64(i-ci), float64(j-cj))
				v = int(float64(v) * (1 - d/float64(r+1)))
			}
			if v < delta[i][j] {
				delta[i][j] = v
			}
		}
	}
	return delta
}

// squareBoundary lists the cells on the edge of the square of half-width r
// around (ci, cj), each once.
func squareBoundary(ci, cj, r int) []Segment {
	out := make([]Segment, 0, 8*r)
	for d := -r; d <= r; d++ {
		out = append(out, Segment{ci + d, cj - r}, Segment{ci + d, cj + r})
	}
	for d := -r + 1; d <= r-1; d++ {
		out = append(out, Segment{ci - r, cj + d}, Segment{ci + r, cj + d})
	}
	return out
}
