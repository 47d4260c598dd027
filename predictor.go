package qoi

// Pixel is an 8-bit-per-channel RGBA pixel. Equality is component-wise,
// and alpha participates in equality even when the surrounding image is
// declared 3-channel (see spec §3).
type Pixel struct {
	R, G, B, A uint8
}

// hash returns the QOI cache-slot index for p: (r*3 + g*5 + b*7 + a*11)
// mod 64, evaluated in wrapping uint8 arithmetic. This must stay
// byte-exact with the reference QOI specification for interop.
func (p Pixel) hash() uint8 {
	return (p.R*3 + p.G*5 + p.B*7 + p.A*11) & 0x3f
}

// predictor is the shared running state threaded through encode and
// decode: the previously emitted/consumed pixel, and a 64-slot cache of
// recently seen pixels keyed by hash(). Both sides initialize it
// identically and update it under the same rules, so it must stay in
// lock-step for the formats to interoperate.
type predictor struct {
	prev  Pixel
	cache [64]Pixel
}

// newPredictor returns predictor state matching spec §3: prev =
// (0,0,0,255), cache entries all zero.
func newPredictor() predictor {
	return predictor{prev: Pixel{R: 0, G: 0, B: 0, A: 255}}
}

// observe records cur as the most recently produced pixel and updates
// its cache slot. Callers must NOT call this for RUN opcodes: per spec
// §3 the cache is not updated and prev is not advanced by a run.
func (pr *predictor) observe(cur Pixel) {
	pr.prev = cur
	pr.cache[cur.hash()] = cur
}
