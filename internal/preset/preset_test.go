package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	content := `
pad:
  window: hann
  overlap: 8
  freeze_factor: 0.9
  freeze_xfade: 32
  freeze_amp: true
  freeze_phase: false
  snapshot_gain: -3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	p, err := f.Lookup("pad")
	require.NoError(t, err)

	assert.Equal(t, "hann", p.Window)
	assert.Equal(t, 8, p.Overlap)
	assert.Equal(t, 0.9, p.FreezeFactor)
	assert.Equal(t, 32, p.FreezeXfade)
	require.NotNil(t, p.FreezeAmp)
	assert.True(t, *p.FreezeAmp)
	require.NotNil(t, p.FreezePhase)
	assert.False(t, *p.FreezePhase)
	assert.Equal(t, -3.0, p.SnapshotGain)
}

func TestLookupUnknownPreset(t *testing.T) {
	f := File{"a": Preset{}}
	_, err := f.Lookup("b")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/presets.yaml")
	require.Error(t, err)
}
