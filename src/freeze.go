package spectrice

/*------------------------------------------------------------------
 *
 * Purpose:	Per-channel, per-bin freeze state machine. Each bin
 *		independently tracks the live spectrum (lambda = 0),
 *		blends toward a reference across a crossfade ramp
 *		(0 < lambda < 1), then holds the reference (lambda = 1).
 *		Amplitude and phase freezing are independently switchable;
 *		a held phase advances through a smoothed estimate of the
 *		bin's own instantaneous frequency rather than snapping to
 *		its nominal center frequency.
 *
 *----------------------------------------------------------------*/

import "math"

// freezeState is the per-session, per-bin memory the hop procedure reads
// and updates. abs is always present; argAccum/argPrev/argStep are only
// allocated when the session freezes phase, per the data model.
type freezeState struct {
	channels int
	bins     int

	abs []float64 // channels*bins

	argAccum []float64 // channels*bins, nil unless FreezePhase
	argPrev  []float64
	argStep  []float64

	haveSnapshot bool
}

// wrap01 reduces a phase value in cycles to the canonical range [0,1).
func wrap01(x float64) float64 {
	return x - math.Floor(x)
}

// crossfadeLambda returns the mix ratio for nominal input sample
// position idx: the ramp from FreezeStart to FreezePeak, scaled by
// FreezeFactor and clamped to [0,1].
func crossfadeLambda(cfg *Config, idx int) float64 {
	var raw float64
	switch {
	case idx >= cfg.FreezePeak:
		raw = 1
	case cfg.FreezePeak == cfg.FreezeStart:
		raw = 0
	default:
		raw = float64(idx-cfg.FreezeStart) / float64(cfg.FreezePeak-cfg.FreezeStart)
	}

	lambda := raw * cfg.FreezeFactor
	switch {
	case lambda < 0:
		return 0
	case lambda > 1:
		return 1
	default:
		return lambda
	}
}

// processHop mixes the live spectrum (reIn, imIn) of channel ch with the
// freeze state according to cfg, writing the result to reOut, imOut. All
// four slices have length bins (N/2). idx is the hop's nominal input
// sample position, used only to compute lambda.
func (fs *freezeState) processHop(cfg *Config, ch int, idx int, reIn, imIn, reOut, imOut []float64) {
	lambda := crossfadeLambda(cfg, idx)
	off := ch * fs.bins
	hops := float64(cfg.Overlap)

	for b := 0; b < fs.bins; b++ {
		mag := math.Hypot(reIn[b], imIn[b])
		argCycles := wrap01(math.Atan2(imIn[b], reIn[b]) / (2 * math.Pi))

		if cfg.FreezeAmp {
			i := off + b
			if !fs.haveSnapshot {
				// Reference tracks the signal up to the freeze: every
				// hop before HaveSnapshot overwrites Abs with the live
				// magnitude, so the eventual freeze locks onto whatever
				// was last seen rather than a stale capture.
				fs.abs[i] = mag
			} else {
				mag = lambda*fs.abs[i] + (1-lambda)*mag
			}
		}

		if cfg.FreezePhase {
			i := off + b
			dArg := argCycles - fs.argPrev[i]
			fs.argPrev[i] = argCycles

			binAdvance := float64(b) / hops
			dArg = wrap01(dArg + binAdvance)
			fs.argStep[i] = lambda*fs.argStep[i] + (1-lambda)*dArg
			dArg = fs.argStep[i] - binAdvance

			fs.argAccum[i] = wrap01(fs.argAccum[i] + dArg)
			argCycles = fs.argAccum[i]
		}

		reOut[b] = mag * math.Cos(2*math.Pi*argCycles)
		imOut[b] = mag * math.Sin(2*math.Pi*argCycles)
	}
}
