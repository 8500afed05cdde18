package spectrice

/*------------------------------------------------------------------
 *
 * Purpose:	Centered (half-sample-shifted, in both time and
 *		frequency) real FFT. An N-point real block maps to
 *		M = N/2 complex bins, computed from two M-point DCT-IV
 *		calls on the even-symmetric and odd-antisymmetric halves
 *		of the input. The inverse only partially undoes each
 *		DCT-IV's own self-inverse scale of M/2, leaving a fixed
 *		round-trip gain of G = N: IFFTCentered(FFTCentered(x)) =
 *		N*x. The window table builder's normalization constant
 *		absorbs G so the full analysis/synthesis chain is unit
 *		gain (see window.go).
 *
 *----------------------------------------------------------------*/

// cfftScratchLen returns the float64 words FFTCentered/IFFTCentered need
// as scratch for a block of size n.
func cfftScratchLen(n int) int {
	m := n / 2
	return 4*m + dctScratchLen(m)
}

// FFTCentered computes the centered spectrum of an N-point real block x,
// writing M = N/2 real and imaginary bin values to re and im. tmp is
// scratch of at least cfftScratchLen(N) words.
func FFTCentered(x []float64, re, im, tmp []float64) error {
	n := len(x)
	m := n / 2
	if !validTransformSize(n) || m < baseCaseSize {
		return invalidConfigf("FFTCentered: size %d must be a power of two with N/2 >= %d", n, baseCaseSize)
	}
	if len(re) < m || len(im) < m {
		return invalidConfigf("FFTCentered: re/im must hold %d bins", m)
	}
	need := cfftScratchLen(n)
	if len(tmp) < need {
		return invalidConfigf("FFTCentered: scratch too small: need %d words, have %d", need, len(tmp))
	}

	ar := newArena(tmp)
	base := ar.mark()
	diff := ar.take(m)
	symAlt := ar.take(m)

	for i := 0; i < m; i++ {
		x0, x1 := x[i], x[n-1-i]
		diff[i] = x0 - x1
		sum := x0 + x1
		if i&1 == 1 {
			sum = -sum
		}
		symAlt[i] = sum
	}

	copy(re[:m], diff)
	afterSplit := ar.mark()
	if err := DCT4(re[:m], ar.buf[ar.pos:]); err != nil {
		return err
	}
	ar.reset(afterSplit)

	copy(im[:m], symAlt)
	if err := DCT4(im[:m], ar.buf[ar.pos:]); err != nil {
		return err
	}

	ar.reset(base)
	return nil
}

// IFFTCentered reconstructs the N-point real block x from M = N/2 bins
// re, im, scaled by the fixed round-trip gain N (see the package
// comment). tmp is scratch of at least cfftScratchLen(N) words.
func IFFTCentered(re, im []float64, x, tmp []float64) error {
	n := len(x)
	m := n / 2
	if !validTransformSize(n) || m < baseCaseSize {
		return invalidConfigf("IFFTCentered: size %d must be a power of two with N/2 >= %d", n, baseCaseSize)
	}
	if len(re) < m || len(im) < m {
		return invalidConfigf("IFFTCentered: re/im must hold %d bins", m)
	}
	need := cfftScratchLen(n)
	if len(tmp) < need {
		return invalidConfigf("IFFTCentered: scratch too small: need %d words, have %d", need, len(tmp))
	}

	ar := newArena(tmp)
	base := ar.mark()
	diff := ar.take(m)
	symAlt := ar.take(m)

	copy(diff, re[:m])
	copy(symAlt, im[:m])

	afterCopy := ar.mark()
	if err := DCT4(diff, ar.buf[ar.pos:]); err != nil {
		return err
	}
	ar.reset(afterCopy)
	if err := DCT4(symAlt, ar.buf[ar.pos:]); err != nil {
		return err
	}
	ar.reset(afterCopy)

	// Each DCT-IV call above squares to (m/2)*identity; undoing that
	// fully would need a scale of 2/m, but IFFTCentered deliberately
	// only applies the fixed constant below, leaving a round-trip gain
	// of (m/2)*4 = 2m = n (see the package comment).
	const scale = 4.0
	for i := 0; i < m; i++ {
		diff[i] *= scale
		symAlt[i] *= scale
	}

	for i := 0; i < m; i++ {
		sym := symAlt[i]
		if i&1 == 1 {
			sym = -sym
		}
		x[i] = (sym + diff[i]) / 2
		x[n-1-i] = (sym - diff[i]) / 2
	}

	ar.reset(base)
	return nil
}
