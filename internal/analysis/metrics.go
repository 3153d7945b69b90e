package analysis

import "math"

const (
	// LevelGain scales the RMS of a centered time-domain buffer into a percentage.
	LevelGain = 300

	// byteMidpoint is the byte value that encodes a zero amplitude sample.
	byteMidpoint = 128
)

// LevelFromTimeDomain returns the loudness of a byte time-domain buffer as a
// percentage in [0, 100]. Samples are centered on 128 and normalized to
// [-1, 1] before the RMS is taken.
func LevelFromTimeDomain(buf []byte) float64 {
	if len(buf) == 0 {
		return 0
	}

	var sum float64
	for _, b := range buf {
		s := (float64(b) - byteMidpoint) / byteMidpoint
		sum += s * s
	}
	return math.Min(math.Sqrt(sum/float64(len(buf)))*LevelGain, 100)
}

// BandRange returns the half-open index range [lo, hi) of band within a
// buffer of length n split into bands equal slices. Samples past
// bands*(n/bands) belong to no band.
func BandRange(n, band, bands int) (lo, hi int) {
	if bands <= 0 || band < 0 || band >= bands {
		return 0, 0
	}
	width := n / bands
	lo = band * width
	return lo, lo + width
}

// BandAverage returns the mean magnitude of one band of a byte frequency
// buffer, scaled to [0, 100].
func BandAverage(freq []byte, band, bands int) float64 {
	lo, hi := BandRange(len(freq), band, bands)
	if hi <= lo {
		return 0
	}

	sum := 0
	for _, v := range freq[lo:hi] {
		sum += int(v)
	}
	avg := float64(sum) / float64(hi-lo)
	return avg / 255 * 100
}
