package voice

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth/osc"
)

// Drone chord voicings: five frequency ratios applied across the bank.
const (
	DroneUnison = iota
	DroneOctave
	DroneFifth
	DroneMajor
	DroneMinor

	droneVoicingCount
)

var droneVoicingNames = [droneVoicingCount]string{
	"unison", "octave", "fifth", "major", "minor",
}

var droneRatios = [droneVoicingCount][droneVoiceCount]float64{
	{1, 1, 1, 1, 1},
	{0.5, 1, 1, 2, 2},
	{0.5, 1, 1.5, 2, 3},
	{1, 1.25, 1.5, 2, 2.5},
	{1, 1.1892, 1.5, 2, 2.3784}, // minor third ≈ 2^(3/12)
}

// DroneState is the drone's activation mode.
type DroneState int

// Drone activation states: off, following the keyboard, or free-running.
const (
	DroneOff DroneState = iota
	DroneKeys
	DroneOn
)

func (s DroneState) String() string {
	switch s {
	case DroneOff:
		return "off"
	case DroneKeys:
		return "keys"
	case DroneOn:
		return "on"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	droneVoiceCount = 5
	droneFadeSec    = 0.5
)

// Per-voice static detunes in ratio units, and drift LFO rates in Hz. The
// slight asymmetry keeps the bank from phase-locking.
var droneDetunes = [droneVoiceCount]float64{0.9985, 0.9995, 1, 1.0006, 1.0018}
var droneDriftRates = [droneVoiceCount]float64{0.11, 0.17, 0.23, 0.31, 0.41}

// Drone is the five-oscillator additive bank. Each voice runs at
// root*ratio, individually detuned and drift-modulated by its own slow
// LFO; brightness blends the waveform from triangle toward saw/square.
// State transitions fade over half a second.
type Drone struct {
	state   DroneState
	voicing int

	brightness float64
	level      float64 // fade envelope, 0..1

	phases [droneVoiceCount]osc.Phase
	drifts [droneVoiceCount]osc.Phase
}

// NewDrone returns a drone bank, off, in unison voicing.
func NewDrone() *Drone {
	return &Drone{brightness: 0.3}
}

// SetState requests an activation state; the level fades toward it.
func (d *Drone) SetState(s DroneState) {
	if s < DroneOff || s > DroneOn {
		s = DroneOff
	}
	d.state = s
}

// State returns the requested activation state.
func (d *Drone) State() DroneState { return d.state }

// SetVoicing selects a chord voicing, wrapped onto the voicing count.
func (d *Drone) SetVoicing(v int) { d.voicing = wrapMode(v, droneVoicingCount) }

// Voicing returns the active voicing index.
func (d *Drone) Voicing() int { return d.voicing }

// VoicingName returns the active voicing's display name.
func (d *Drone) VoicingName() string { return droneVoicingNames[d.voicing] }

// SetBrightness sets the waveform blend, silently clamped to [0, 1].
func (d *Drone) SetBrightness(b float64) {
	if math.IsNaN(b) || b < 0 {
		b = 0
	}
	if b > 1 {
		b = 1
	}
	d.brightness = b
}

// Brightness returns the waveform blend.
func (d *Drone) Brightness() float64 { return d.brightness }

// Level returns the current fade envelope in [0, 1].
func (d *Drone) Level() float64 { return d.level }

// GenerateSample renders one drone sample. rootHz is the chord root; gate
// matters only in the keys state, where the drone follows the keyboard.
func (d *Drone) GenerateSample(rootHz float64, gate bool, sampleRate float64) int16 {
	audible := d.state == DroneOn || (d.state == DroneKeys && gate)

	fade := 1 / (droneFadeSec * sampleRate)
	if audible {
		d.level += fade
		if d.level > 1 {
			d.level = 1
		}
	} else {
		d.level -= fade
		if d.level < 0 {
			d.level = 0
		}
	}
	if d.level == 0 {
		return 0
	}

	root := clampCarrier(rootHz)
	ratios := droneRatios[d.voicing]

	var sum int32
	for i := 0; i < droneVoiceCount; i++ {
		d.drifts[i].SetFrequency(droneDriftRates[i], sampleRate)
		drift := 1 + 0.002*float64(osc.Triangle(d.drifts[i].Advance()))/16384

		d.phases[i].SetFrequency(root*ratios[i]*droneDetunes[i]*drift, sampleRate)
		p := d.phases[i].Advance()

		// Brightness blends triangle into the harsher saw/square pair.
		soft := int32(osc.Triangle(p))
		hard := int32(osc.Sawtooth(p))/2 + int32(osc.Square(p))/2
		sum += int32(float64(soft)*(1-d.brightness)+float64(hard)*d.brightness) / droneVoiceCount
	}

	return scaleSample(int16(sum), d.level)
}

// Reset silences the bank immediately and rewinds all phases.
func (d *Drone) Reset() {
	d.state = DroneOff
	d.level = 0
	for i := range d.phases {
		d.phases[i].Reset()
		d.drifts[i].Reset()
	}
}
