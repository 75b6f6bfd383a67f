package physics

import "github.com/pkg/errors"

var (
	// ErrInvalidHandle is returned for handles the world never issued.
	ErrInvalidHandle = errors.New("physics: invalid body handle")
	// ErrStaleHandle is returned for handles whose body has been removed.
	ErrStaleHandle = errors.New("physics: stale body handle")

	ErrNilShape         = errors.New("physics: body has no shape")
	ErrInvalidMaterial  = errors.New("physics: invalid material")
	ErrInvalidBody      = errors.New("physics: invalid body definition")
	ErrInvalidConfig    = errors.New("physics: invalid config")
	ErrInvalidTimestep  = errors.New("physics: timestep must be positive and finite")
	ErrInvalidAttractor = errors.New("physics: invalid attractor")
	ErrUnknownID        = errors.New("physics: unknown id")
)
