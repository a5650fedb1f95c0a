package component

import "github.com/milk9111/moveset/common"

// Grab is the held-object state of a grabbing entity.
type Grab struct {
	Holding bool
	// Target is the raw entity handle of the held body.
	Target uint64
	Weight float64
}

var GrabComponent = NewComponent[Grab]()

// ExternalPull is written by a grapple collaborator. While active, the
// acceleration is added to the body velocity every tick.
type ExternalPull struct {
	Active       bool
	Acceleration common.Vec3
}

var ExternalPullComponent = NewComponent[ExternalPull]()
