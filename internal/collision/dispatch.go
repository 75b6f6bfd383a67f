package collision

import "physics2d/internal/shape"

type collideFunc func(a, b Proxy) (Manifold, bool)

// handlers is indexed by [kind of a][kind of b].
var handlers = [shape.KindCount][shape.KindCount]collideFunc{
	shape.KindCircle: {
		shape.KindCircle:  CircleCircle,
		shape.KindPolygon: CirclePolygon,
	},
	shape.KindPolygon: {
		shape.KindCircle:  PolygonCircle,
		shape.KindPolygon: PolygonPolygon,
	},
}

// Collide runs the test registered for the kinds of a and b. The second
// result is false when the shapes do not touch.
func Collide(a, b Proxy) (Manifold, bool) {
	return handlers[a.Shape.Kind()][b.Shape.Kind()](a, b)
}
