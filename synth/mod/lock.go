package mod

import "math"

// UnlockThreshold is how far a locked knob must travel from its lock-time
// snapshot before it takes effect again (~3.6% of its range).
const UnlockThreshold = 0.036

// ParamLock freezes a knob's effect at the moment its assigned role
// changes. While locked, Update keeps returning the held value; once the
// raw position moves past UnlockThreshold from the snapshot, the knob is
// live again. This prevents an abrupt parameter jump when a mutation tier
// reassigns a knob.
type ParamLock struct {
	locked   bool
	snapshot float64
	held     float64
}

// Lock snapshots the raw knob position and freezes the effective value.
func (p *ParamLock) Lock(raw, effective float64) {
	p.locked = true
	p.snapshot = raw
	p.held = effective
}

// Update feeds the current raw knob position and returns the effective
// value, unlocking when the knob has moved far enough.
func (p *ParamLock) Update(raw float64) float64 {
	if !p.locked {
		return raw
	}
	if math.Abs(raw-p.snapshot) > UnlockThreshold {
		p.locked = false
		return raw
	}
	return p.held
}

// Locked reports whether the knob is currently frozen.
func (p *ParamLock) Locked() bool { return p.locked }

// Release unconditionally unfreezes the knob.
func (p *ParamLock) Release() { p.locked = false }
