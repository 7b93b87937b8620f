package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Hit describes a successful probe.
type Hit struct {
	Point    mgl64.Vec3
	Distance float64
	Block    *Block
}

// Top returns the height of the hit block's upper face.
func (h Hit) Top() float64 {
	if h.Block == nil {
		return h.Point.Y()
	}
	return h.Block.Max.Y()
}

func layerFilter(layers Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(layers))
}

// pointQuery calls fn for every shape within maxDistance of p. The distance
// in info is negative when p is inside the shape.
func pointQuery(space *cp.Space, p cp.Vector, maxDistance float64, filter cp.ShapeFilter, fn func(shape *cp.Shape, info cp.PointQueryInfo)) {
	space.BBQuery(cp.NewBBForCircle(p, maxDistance), filter, func(shape *cp.Shape, _ interface{}) {
		info := shape.PointQuery(p)
		if info.Distance <= maxDistance {
			fn(shape, info)
		}
	}, nil)
}

// CheckSphere reports whether a sphere overlaps any block in layers. The
// floor plane, when enabled, belongs to LayerGround.
func (w *World) CheckSphere(center mgl64.Vec3, radius float64, layers Layer) bool {
	if radius < 0 || layers == LayerNone {
		return false
	}
	if w.cfg.Floor && layers&LayerGround != 0 && center.Y()-radius <= 0 {
		return true
	}

	hit := false
	pointQuery(w.space, cp.Vector{X: center.X(), Y: center.Z()}, radius, layerFilter(layers), func(shape *cp.Shape, info cp.PointQueryInfo) {
		if hit {
			return
		}
		block, ok := shape.UserData.(*Block)
		if !ok {
			return
		}
		horizontal := math.Max(0, info.Distance)
		vertical := 0.0
		switch {
		case center.Y() < block.Min.Y():
			vertical = block.Min.Y() - center.Y()
		case center.Y() > block.Max.Y():
			vertical = center.Y() - block.Max.Y()
		}
		if horizontal*horizontal+vertical*vertical <= radius*radius {
			hit = true
		}
	})
	return hit
}

// SphereCast sweeps a sphere from origin along dir for up to maxDistance and
// returns the nearest block in layers it touches. The sweep is resolved on
// the ground plane; the vertical coordinate follows the direction's slope.
func (w *World) SphereCast(origin, dir mgl64.Vec3, radius, maxDistance float64, layers Layer) (Hit, bool) {
	if maxDistance <= 0 || layers == LayerNone || dir.Len() < 1e-9 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	end := origin.Add(dir.Mul(maxDistance))

	start2 := cp.Vector{X: origin.X(), Y: origin.Z()}
	end2 := cp.Vector{X: end.X(), Y: end.Z()}
	if start2.Distance(end2) < 1e-9 {
		// Purely vertical sweeps are the ray's job.
		return w.Raycast(origin, dir, maxDistance, layers)
	}

	if hit, ok := w.overlapAhead(origin, start2, end2.Sub(start2), radius, layers); ok {
		return hit, true
	}

	best := Hit{Distance: math.Inf(1)}
	found := false
	w.space.SegmentQuery(start2, end2, radius, layerFilter(layers), func(shape *cp.Shape, point, _ cp.Vector, alpha float64, _ interface{}) {
		block, ok := shape.UserData.(*Block)
		if !ok {
			return
		}
		dist := alpha * maxDistance
		if dist >= best.Distance {
			return
		}
		y := origin.Y() + dir.Y()*dist
		if y < block.Min.Y()-radius || y > block.Max.Y()+radius {
			return
		}
		best = Hit{
			Point:    mgl64.Vec3{point.X, mgl64.Clamp(y, block.Min.Y(), block.Max.Y()), point.Y},
			Distance: dist,
			Block:    block,
		}
		found = true
	}, nil)
	return best, found
}

// overlapAhead finds a block the sphere already touches at origin, on the
// side the sweep is heading. Chipmunk's segment query skips faces the start
// point is inside of.
func (w *World) overlapAhead(origin mgl64.Vec3, start2, dir2 cp.Vector, radius float64, layers Layer) (Hit, bool) {
	if radius <= 0 {
		return Hit{}, false
	}
	var hit Hit
	found := false
	pointQuery(w.space, start2, radius, layerFilter(layers), func(shape *cp.Shape, info cp.PointQueryInfo) {
		point := info.Point
		block, ok := shape.UserData.(*Block)
		if !ok || found || point.Sub(start2).Dot(dir2) < 0 {
			return
		}
		if origin.Y() < block.Min.Y()-radius || origin.Y() > block.Max.Y()+radius {
			return
		}
		hit = Hit{
			Point: mgl64.Vec3{point.X, mgl64.Clamp(origin.Y(), block.Min.Y(), block.Max.Y()), point.Y},
			Block: block,
		}
		found = true
	})
	return hit, found
}

// Raycast casts a straight line. Vertical rays hit the face of blocks whose
// footprint contains the origin; other rays are resolved on the ground plane.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDistance float64, layers Layer) (Hit, bool) {
	if maxDistance <= 0 || layers == LayerNone || dir.Len() < 1e-9 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	if math.Abs(dir.Y()) < 1-1e-9 {
		return w.SphereCast(origin, dir, 0, maxDistance, layers)
	}

	rising := dir.Y() > 0
	best := Hit{Distance: math.Inf(1)}
	found := false
	pointQuery(w.space, cp.Vector{X: origin.X(), Y: origin.Z()}, 0, layerFilter(layers), func(shape *cp.Shape, info cp.PointQueryInfo) {
		block, ok := shape.UserData.(*Block)
		if !ok || info.Distance > 0 {
			return
		}
		var dist float64
		if rising {
			dist = block.Min.Y() - origin.Y()
		} else {
			dist = origin.Y() - block.Max.Y()
		}
		if dist < 0 || dist > maxDistance || dist >= best.Distance {
			return
		}
		best = Hit{
			Point:    origin.Add(dir.Mul(dist)),
			Distance: dist,
			Block:    block,
		}
		found = true
	})

	if !rising && w.cfg.Floor && layers&LayerGround != 0 {
		if dist := origin.Y(); dist >= 0 && dist <= maxDistance && dist < best.Distance {
			best = Hit{Point: mgl64.Vec3{origin.X(), 0, origin.Z()}, Distance: dist}
			found = true
		}
	}
	return best, found
}
