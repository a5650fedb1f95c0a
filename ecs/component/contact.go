package component

import "github.com/milk9111/moveset/common"

type ContactPhase uint8

const (
	ContactBegin ContactPhase = iota
	ContactStay
	ContactEnd
)

// WallAngle is the minimum angle in degrees between a contact normal and up
// for the contact to count as a wall. Ceilings are excluded by wallAngleMax.
const (
	WallAngle    = 89.0
	wallAngleMax = 120.0
)

// Contact is one touching pair as reported by the physics world.
type Contact struct {
	// ID is stable for the lifetime of the touching pair.
	ID     uint64
	Other  uint64
	Point  common.Vec3
	Normal common.Vec3
	Layer  LayerMask
	Tag    string
}

// IsWall reports whether the contact normal is close to horizontal.
func (c Contact) IsWall() bool {
	a := common.Angle(c.Normal, common.Up)
	return a > WallAngle && a < wallAngleMax
}

// Contacts tracks active touching pairs. Notifications may arrive any number
// of times per tick; repeated Begin or End for the same pair are no-ops.
type Contacts struct {
	active map[uint64]Contact
	begun  []Contact
}

// Notify records a contact notification. It reports whether the active set
// changed.
func (c *Contacts) Notify(phase ContactPhase, contact Contact) bool {
	if c == nil {
		return false
	}
	if c.active == nil {
		c.active = make(map[uint64]Contact)
	}
	_, known := c.active[contact.ID]
	switch phase {
	case ContactBegin, ContactStay:
		c.active[contact.ID] = contact
		if known {
			return false
		}
		c.begun = append(c.begun, contact)
		return true
	case ContactEnd:
		if !known {
			return false
		}
		delete(c.active, contact.ID)
		return true
	}
	return false
}

// Wall returns the normal of any active wall contact.
func (c *Contacts) Wall() (common.Vec3, bool) {
	if c == nil {
		return common.Zero, false
	}
	for _, contact := range c.active {
		if contact.IsWall() {
			return contact.Normal, true
		}
	}
	return common.Zero, false
}

// Active returns the number of touching pairs.
func (c *Contacts) Active() int {
	if c == nil {
		return 0
	}
	return len(c.active)
}

// TakeBegun returns contacts that started since the last call.
func (c *Contacts) TakeBegun() []Contact {
	if c == nil || len(c.begun) == 0 {
		return nil
	}
	out := c.begun
	c.begun = nil
	return out
}

// Reset forgets every contact. Used when the collider is disabled.
func (c *Contacts) Reset() {
	if c == nil {
		return
	}
	c.active = nil
	c.begun = nil
}

var ContactsComponent = NewComponent[Contacts]()
