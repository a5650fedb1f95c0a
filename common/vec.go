package common

import "math"

// Vec3 is a world-space vector. Y is up, Z is forward.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Down    = Vec3{Y: -1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalized returns the unit vector of v, or the zero vector when v is
// too short to normalise.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsZero() bool {
	return v.Len() < epsilon
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) WithY(y float64) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Z}
}

// Project returns the component of v along onto.
func (v Vec3) Project(onto Vec3) Vec3 {
	d := onto.Dot(onto)
	if d < epsilon {
		return Vec3{}
	}
	return onto.Scale(v.Dot(onto) / d)
}

// ProjectOnPlane removes the component of v along the plane normal n.
func (v Vec3) ProjectOnPlane(n Vec3) Vec3 {
	return v.Sub(v.Project(n))
}

// Angle returns the unsigned angle between a and b in degrees.
func Angle(a, b Vec3) float64 {
	d := math.Sqrt(a.Dot(a) * b.Dot(b))
	if d < epsilon {
		return 0
	}
	return Degrees(math.Acos(Clamp(a.Dot(b)/d, -1, 1)))
}

func LerpVec(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// SmoothDamp moves current toward target with a critically damped spring.
// vel carries the spring state between calls.
func SmoothDamp(current, target Vec3, vel *Vec3, smoothTime, dt float64) Vec3 {
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current.Sub(target)
	temp := vel.Add(change.Scale(omega)).Scale(dt)
	*vel = vel.Sub(temp.Scale(omega)).Scale(exp)
	out := target.Add(change.Add(temp).Scale(exp))

	// Prevent overshooting.
	if target.Sub(current).Dot(out.Sub(target)) > 0 {
		out = target
		*vel = Vec3{}
	}
	return out
}

// RotateY rotates v about the up axis by deg degrees. Positive angles turn
// forward toward right.
func (v Vec3) RotateY(deg float64) Vec3 {
	s, c := math.Sincos(Radians(deg))
	return Vec3{X: v.X*c + v.Z*s, Y: v.Y, Z: -v.X*s + v.Z*c}
}
