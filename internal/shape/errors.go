package shape

import "github.com/pkg/errors"

// Shape validity errors. Constructors wrap these with the offending detail;
// test with errors.Is.
var (
	ErrTooFewVertices = errors.New("shape: polygon needs at least 3 vertices")
	ErrConcave        = errors.New("shape: polygon is not convex")
	ErrDegenerate     = errors.New("shape: polygon has no area")
	ErrInvalidRadius  = errors.New("shape: circle radius must be positive and finite")
	ErrInvalidVertex  = errors.New("shape: vertex is not finite")
)
