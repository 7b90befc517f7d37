package fx

// RingMod multiplies carrier and modulator samples back into the 16-bit
// range:
//
//	out = carrier * modulator >> 15
//
// With both inputs in ±16384 the product stays inside ±8192, giving the
// metallic sum/difference tones their slightly recessed level.
func RingMod(carrier, modulator int16) int16 {
	return int16(int32(carrier) * int32(modulator) >> 15)
}
