package vmath

// RectF is an axis-aligned rectangle, Min inclusive and Max exclusive
type RectF struct {
	Min, Max Vec2F
}

// R returns the rectangle at (x, y) with the given size
func R(x, y, w, h float64) RectF {
	return RectF{Min: Vec2F{x, y}, Max: Vec2F{x + w, y + h}}
}

func (r RectF) Width() float64  { return r.Max.X - r.Min.X }
func (r RectF) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area
func (r RectF) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r
func (r RectF) Contains(p Vec2F) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Overlaps reports whether r and o share any area
func (r RectF) Overlaps(o RectF) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X && r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Translate returns r moved by d
func (r RectF) Translate(d Vec2F) RectF {
	return RectF{Min: V2FAdd(r.Min, d), Max: V2FAdd(r.Max, d)}
}

// IntersectsSegment reports whether segment a-b touches r
// Liang-Barsky clipping against the four slabs
func (r RectF) IntersectsSegment(a, b Vec2F) bool {
	if r.Empty() {
		return false
	}
	if r.Contains(a) || r.Contains(b) {
		return true
	}

	d := V2FSub(b, a)
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if !clip(-d.X, a.X-r.Min.X) || !clip(d.X, r.Max.X-a.X) ||
		!clip(-d.Y, a.Y-r.Min.Y) || !clip(d.Y, r.Max.Y-a.Y) {
		return false
	}
	return t0 <= t1
}
