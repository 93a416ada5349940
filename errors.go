package butsuri

import "errors"

var (
	// ErrZeroMass is returned when a body template carries no mass, or a
	// shape is created against a massless dynamic body.
	ErrZeroMass = errors.New("butsuri: zero mass")

	// ErrNoBody is returned when a shape template's context entity does not
	// carry a Body at construction time.
	ErrNoBody = errors.New("butsuri: context entity has no body")

	// ErrBadGeometry is returned for geometry/attribute combinations the
	// engine does not support, such as an offset on a polygon.
	ErrBadGeometry = errors.New("butsuri: unsupported geometry")
)
