package compressor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagepress/types"
)

func testImage(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

func TestSearchQualityFindsHighestFittingQuality(t *testing.T) {
	fake := newFakeCodec()
	e := NewEngine(fake, DefaultConfig())

	// 100x80 jpeg in the fake model encodes to 80*quality bytes, so the
	// highest quality under a 5000 byte budget is 62 (4960 bytes)
	cand, err := e.searchQuality(testImage(100, 80), types.FormatJPEG, 1.0, 5000)
	require.NoError(t, err)

	assert.Equal(t, 62, cand.Quality)
	assert.Equal(t, int64(4960), cand.SizeBytes)
	assert.True(t, cand.Satisfies(5000))
	assert.Equal(t, int64(len(cand.Encoded)), cand.SizeBytes)
	assert.LessOrEqual(t, fake.encodeCalls, DefaultConfig().QualityIterations)
}

func TestSearchQualityUnreachableTargetReturnsSmallest(t *testing.T) {
	fake := newFakeCodec()
	e := NewEngine(fake, DefaultConfig())

	// Even quality 40 produces 3200 bytes; the search must bottom out there
	cand, err := e.searchQuality(testImage(100, 80), types.FormatJPEG, 1.0, 100)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().QualityMin, cand.Quality)
	assert.Equal(t, int64(3200), cand.SizeBytes)
	assert.False(t, cand.Satisfies(100))
}

func TestSearchQualityGenerousTargetReachesMaxQuality(t *testing.T) {
	fake := newFakeCodec()
	e := NewEngine(fake, DefaultConfig())

	cand, err := e.searchQuality(testImage(100, 80), types.FormatJPEG, 1.0, 1_000_000)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().QualityMax, cand.Quality)
}

func TestSearchQualityLosslessEncodesOnce(t *testing.T) {
	fake := newFakeCodec()
	e := NewEngine(fake, DefaultConfig())

	cand, err := e.searchQuality(testImage(100, 80), types.FormatPNG, 1.0, 5000)
	require.NoError(t, err)

	assert.Equal(t, 0, cand.Quality)
	assert.Equal(t, types.FormatPNG, cand.Format)
	assert.Equal(t, 1, fake.encodeCalls)
}

func TestSearchQualityRespectsIterationBudget(t *testing.T) {
	fake := newFakeCodec()
	cfg := DefaultConfig()
	cfg.QualityIterations = 3
	e := NewEngine(fake, cfg)

	_, err := e.searchQuality(testImage(100, 80), types.FormatJPEG, 1.0, 5000)
	require.NoError(t, err)

	assert.LessOrEqual(t, fake.encodeCalls, 3)
}

// The search assumes size grows with quality; the fake model must honor that
func TestFakeEncoderIsMonotonicInQuality(t *testing.T) {
	prev := int64(-1)
	for q := 40; q <= 95; q++ {
		size := fakeEncodedSize(100, 80, types.FormatJPEG, q)
		assert.GreaterOrEqual(t, size, prev, "quality %d", q)
		prev = size
	}
}
