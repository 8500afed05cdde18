package spectrice

/*------------------------------------------------------------------
 *
 * Purpose:	Session wrapper: owns the single aligned allocation, the
 *		per-channel ring buffers, and the hop-by-hop overlap-add
 *		loop that drives the freeze engine. Init is the only place
 *		that allocates; Init and PrimeSnapshot are the only ones
 *		that can fail; Process is allocation-free and infallible.
 *
 *----------------------------------------------------------------*/

import "math"

// Config describes one freeze session. BlockSize is the analysis/
// synthesis transform length N; Overlap is the hop count H that overlap
// at steady state (hop length is BlockSize/Overlap). FreezeStart and
// FreezePeak are sample positions in the session's input timeline, not
// hop indices.
type Config struct {
	Channels  int
	BlockSize int
	Overlap   int
	Window    WindowKind

	// FreezeStart (S) is the sample position the crossfade ramp begins
	// at; FreezePeak (P) is the sample position it reaches FreezeFactor,
	// and holds there afterward. Requires P >= S >= BlockSize.
	FreezeStart int
	FreezePeak  int
	// FreezeFactor scales the fully-blended ratio; 1 means a full
	// freeze at the end of the ramp, less than 1 leaves some live
	// signal mixed in permanently.
	FreezeFactor float64

	FreezeAmp   bool
	FreezePhase bool

	// Snapshot, when true, freezes from a pre-analyzed reference block
	// (see Session.PrimeSnapshot) instead of capturing live spectrum at
	// FreezePeak. Incompatible with FreezePhase: a pre-analyzed
	// snapshot has no notion of the live phase trajectory a held phase
	// would otherwise advance from.
	Snapshot     bool
	SnapshotGain float64
}

func (c *Config) hopSize() int {
	return c.BlockSize / c.Overlap
}

func (c *Config) bins() int {
	return c.BlockSize / 2
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (c *Config) validate() error {
	if c.Channels < 1 || c.Channels > 255 {
		return invalidConfigf("Channels must be in [1,255], got %d", c.Channels)
	}
	if !validTransformSize(c.BlockSize) || c.BlockSize > 65536 || c.bins() < baseCaseSize {
		return invalidConfigf("BlockSize %d must be a power of two in [16, 65536]", c.BlockSize)
	}
	if !isPowerOfTwo(c.Overlap) || c.Overlap < 2 || c.Overlap > c.BlockSize {
		return invalidConfigf("Overlap %d must be a power of two in [2, BlockSize]", c.Overlap)
	}
	if c.Overlap < c.Window.minHops() {
		return invalidConfigf("%s window needs Overlap >= %d, got %d", c.Window, c.Window.minHops(), c.Overlap)
	}
	if c.FreezeStart < c.BlockSize {
		return invalidConfigf("FreezeStart must be >= BlockSize (%d), got %d", c.BlockSize, c.FreezeStart)
	}
	if c.FreezePeak < c.FreezeStart {
		return invalidConfigf("FreezePeak must be >= FreezeStart, got %d < %d", c.FreezePeak, c.FreezeStart)
	}
	if c.FreezeFactor < 0 || c.FreezeFactor > 1 {
		return invalidConfigf("FreezeFactor must be in [0,1], got %f", c.FreezeFactor)
	}
	if c.Snapshot && c.FreezePhase {
		return invalidConfigf("Snapshot and FreezePhase cannot both be set")
	}
	return nil
}

// Session runs one freeze engine instance over a stream of hop-sized,
// interleaved channel-minor blocks. It is not safe for concurrent use.
type Session struct {
	cfg Config
	hop int

	window []float64

	// Per channel: channels*BlockSize each, channel c at [c*N, (c+1)*N).
	inRing   []float64
	outAccum []float64

	// Shared scratch, reused sequentially across channels within a hop.
	analysis  []float64
	synthesis []float64

	re, im       []float64
	reSyn, imSyn []float64
	cfftTmp      []float64

	freeze *freezeState

	hopIdx int
}

// Init validates cfg and allocates the session's entire working set as
// one 64-byte-aligned block. Besides PrimeSnapshot, it is the only
// fallible entry point.
func Init(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := cfg.BlockSize
	bins := cfg.bins()
	hop := cfg.hopSize()
	channels := cfg.Channels

	window, err := BuildWindow(cfg.Window, n, cfg.Overlap)
	if err != nil {
		return nil, err
	}

	cfftTmpLen := cfftScratchLen(n)

	argWords := 0
	if cfg.FreezePhase {
		argWords = 3 * channels * bins
	}

	total := n /*window*/ + channels*n /*inRing*/ + channels*n /*outAccum*/ + n /*analysis*/ + n /*synthesis*/ +
		bins*4 /*re,im,reSyn,imSyn*/ + cfftTmpLen + channels*bins /*abs*/ + argWords

	cur := newRegionCursor(total)

	s := &Session{
		cfg:       cfg,
		hop:       hop,
		window:    cur.region(n),
		inRing:    cur.region(channels * n),
		outAccum:  cur.region(channels * n),
		analysis:  cur.region(n),
		synthesis: cur.region(n),
		re:        cur.region(bins),
		im:        cur.region(bins),
		reSyn:     cur.region(bins),
		imSyn:     cur.region(bins),
		cfftTmp:   cur.region(cfftTmpLen),
	}

	fs := &freezeState{
		channels: channels,
		bins:     bins,
		abs:      cur.region(channels * bins),
	}
	if cfg.FreezePhase {
		fs.argAccum = cur.region(channels * bins)
		fs.argPrev = cur.region(channels * bins)
		fs.argStep = cur.region(channels * bins)
	}
	s.freeze = fs

	copy(s.window, window)

	return s, nil
}

// Destroy releases the session's reference to its allocation. Go's
// collector reclaims the memory once the last reference drops; Destroy
// exists so callers that mirror a non-GC lifecycle have an explicit
// point to call.
func (s *Session) Destroy() {
	s.window = nil
	s.inRing = nil
	s.outAccum = nil
	s.analysis = nil
	s.synthesis = nil
	s.re, s.im, s.reSyn, s.imSyn = nil, nil, nil, nil
	s.cfftTmp = nil
	s.freeze = nil
}

// BlockIdx returns the number of hops processed so far.
func (s *Session) BlockIdx() int { return s.hopIdx }

// HopSize returns the number of interleaved sample frames Process
// consumes and produces per call (multiply by Config.Channels for the
// number of float64s per call).
func (s *Session) HopSize() int { return s.hop }

// PrimeSnapshot pre-analyzes a reference block for snapshot-driven
// freezing (Config.Snapshot == true). block must hold exactly
// BlockSize*Channels interleaved samples of source audio centered on the
// desired freeze reference; callers reading from a file that doesn't
// have that many samples available around the chosen position get
// ErrPrimingUnderflow instead of a freeze built from zero-padded
// silence.
func (s *Session) PrimeSnapshot(block []float64) error {
	if !s.cfg.Snapshot {
		return invalidConfigf("PrimeSnapshot called but Config.Snapshot is false")
	}

	n := s.cfg.BlockSize
	channels := s.cfg.Channels
	want := n * channels
	if len(block) != want {
		return primingUnderflowf("PrimeSnapshot needs exactly %d samples (%d channels x %d), got %d", want, channels, n, len(block))
	}

	bins := s.cfg.bins()
	for c := 0; c < channels; c++ {
		for i, w := range s.window {
			s.analysis[i] = block[i*channels+c] * w
		}

		if err := FFTCentered(s.analysis, s.re, s.im, s.cfftTmp); err != nil {
			return err
		}

		off := c * bins
		for b := 0; b < bins; b++ {
			s.freeze.abs[off+b] = math.Hypot(s.re[b], s.im[b]) * s.cfg.SnapshotGain
		}
	}

	s.freeze.haveSnapshot = true

	return nil
}

// Process consumes exactly HopSize*Channels new interleaved input
// samples and produces exactly HopSize*Channels interleaved output
// samples, advancing the session by one hop. Once Init has succeeded
// this never fails and never allocates.
func (s *Session) Process(in, out []float64) {
	hop := s.hop
	n := s.cfg.BlockSize
	channels := s.cfg.Channels
	idx := s.hopIdx * hop

	for c := 0; c < channels; c++ {
		ring := s.inRing[c*n : (c+1)*n]
		copy(ring, ring[hop:])
		for i := 0; i < hop; i++ {
			ring[n-hop+i] = in[i*channels+c]
		}

		for i, w := range s.window {
			s.analysis[i] = ring[i] * w
		}

		// FFTCentered/IFFTCentered only fail on malformed sizes, which
		// Init already validated; errors here would indicate a session
		// built outside of Init and are not part of the steady-state
		// contract.
		_ = FFTCentered(s.analysis, s.re, s.im, s.cfftTmp)

		s.freeze.processHop(&s.cfg, c, idx, s.re, s.im, s.reSyn, s.imSyn)

		_ = IFFTCentered(s.reSyn, s.imSyn, s.synthesis, s.cfftTmp)

		accum := s.outAccum[c*n : (c+1)*n]
		for i, w := range s.window {
			accum[i] += s.synthesis[i] * w
		}

		for i := 0; i < hop; i++ {
			out[i*channels+c] = accum[i]
		}
		copy(accum, accum[hop:])
		for i := n - hop; i < n; i++ {
			accum[i] = 0
		}
	}

	if s.cfg.FreezeAmp && !s.freeze.haveSnapshot && idx >= s.cfg.FreezePeak {
		s.freeze.haveSnapshot = true
	}

	s.hopIdx++
}
