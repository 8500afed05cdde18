// Command spectrice freezes a region of a WAV file's spectrum and
// renders the result to a new WAV file.
package main

/*------------------------------------------------------------------
 *
 * Purpose:	CLI front-end: parse flags, drive a spectrice.Session
 *		over an input WAV file hop by hop, and write the result.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/Aikku93/spectrice/internal/liveplay"
	"github.com/Aikku93/spectrice/internal/pcmfmt"
	"github.com/Aikku93/spectrice/internal/preset"
	"github.com/Aikku93/spectrice/internal/progress"
	"github.com/Aikku93/spectrice/internal/wav"
	"github.com/Aikku93/spectrice/src"
)

var windowNames = map[string]spectrice.WindowKind{
	"sine":     spectrice.WindowSine,
	"hann":     spectrice.WindowHann,
	"hamming":  spectrice.WindowHamming,
	"blackman": spectrice.WindowBlackman,
	"nuttall":  spectrice.WindowNuttall,
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		spectrice.Log.Error(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("spectrice", pflag.ContinueOnError)

	blockSize := fs.Int("blocksize", 2048, "analysis/synthesis block size N, power of two")
	overlap := fs.Int("nhops", 4, "hop count H, power of two (hop size = blocksize/nhops)")
	windowName := fs.String("window", "hann", "analysis/synthesis window: sine, hann, hamming, blackman, nuttall")
	freezePoint := fs.Int("freezepoint", 2048, "freeze-peak sample position (P)")
	freezeXfade := fs.Int("freezexfade", 0, "samples of crossfade before the freeze peak (P-S)")
	freezeFactor := fs.Float64("freezefactor", 1.0, "final blend ratio toward the frozen spectrum, in [0,1]")
	noFreezeAmp := fs.Bool("nofreezeamp", false, "disable amplitude freezing (phase-only freeze)")
	freezePhase := fs.Bool("freezephase", false, "freeze bin phase in addition to amplitude")
	snapshot := fs.Bool("snapshot", false, "freeze from a pre-analyzed snapshot block instead of live capture at freezepoint")
	snapshotAt := fs.Int("snapshotat", -1, "sample offset of the snapshot block; defaults to the WAV file's loop start")
	snapshotGainDB := fs.Float64("snapshotgain", 0, "gain in dB applied to the snapshot's magnitude before freezing")
	presetPath := fs.String("presetfile", "", "YAML file of named freeze presets")
	presetName := fs.String("preset", "", "name of a preset from --presetfile to apply before other flags")
	monitor := fs.Bool("monitor", false, "play processed output live through the default audio device")
	logDir := fs.String("logdir", "", "directory for a daily-rotating diagnostic log file")
	verbose := fs.Bool("verbose", false, "enable debug-level logging")
	showVersion := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		spectrice.PrintVersion(*verbose)
		return nil
	}

	if *verbose {
		spectrice.Log.SetLevel(log.DebugLevel)
	}
	if *logDir != "" {
		if err := spectrice.OpenLogFile(*logDir); err != nil {
			return err
		}
		defer spectrice.CloseLogFile()
	}

	if *presetPath != "" && *presetName != "" {
		if err := applyPreset(fs, *presetPath, *presetName, windowName, overlap, freezeFactor, freezeXfade, noFreezeAmp, freezePhase, snapshotGainDB); err != nil {
			return err
		}
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: spectrice [flags] input.wav output.wav")
	}
	inPath, outPath := rest[0], rest[1]

	kind, ok := windowNames[*windowName]
	if !ok {
		return fmt.Errorf("unknown window %q", *windowName)
	}

	freezeStart := *freezePoint - *freezeXfade
	if freezeStart < 0 {
		freezeStart = 0
	}

	cfgTemplate := spectrice.Config{
		BlockSize:    *blockSize,
		Overlap:      *overlap,
		Window:       kind,
		FreezeStart:  freezeStart,
		FreezePeak:   *freezePoint,
		FreezeFactor: *freezeFactor,
		FreezeAmp:    !*noFreezeAmp,
		FreezePhase:  *freezePhase,
		Snapshot:     *snapshot,
		SnapshotGain: pcmfmt.DBToLinear(*snapshotGainDB),
	}

	return process(cfgTemplate, inPath, outPath, *snapshotAt, *monitor)
}

func applyPreset(fs *pflag.FlagSet, path, name string, windowName *string, overlap *int, freezeFactor *float64, freezeXfade *int, noFreezeAmp, freezePhase *bool, snapshotGainDB *float64) error {
	presets, err := preset.Load(path)
	if err != nil {
		return err
	}
	p, err := presets.Lookup(name)
	if err != nil {
		return err
	}

	if !fs.Changed("window") && p.Window != "" {
		*windowName = p.Window
	}
	if !fs.Changed("nhops") && p.Overlap != 0 {
		*overlap = p.Overlap
	}
	if !fs.Changed("freezefactor") && p.FreezeFactor != 0 {
		*freezeFactor = p.FreezeFactor
	}
	if !fs.Changed("freezexfade") && p.FreezeXfade != 0 {
		*freezeXfade = p.FreezeXfade
	}
	if !fs.Changed("nofreezeamp") && p.FreezeAmp != nil {
		*noFreezeAmp = !*p.FreezeAmp
	}
	if !fs.Changed("freezephase") && p.FreezePhase != nil {
		*freezePhase = *p.FreezePhase
	}
	if !fs.Changed("snapshotgain") && p.SnapshotGain != 0 {
		*snapshotGainDB = p.SnapshotGain
	}

	return nil
}

func process(cfg spectrice.Config, inPath, outPath string, snapshotAt int, monitor bool) error {
	in, err := wav.Read(inPath)
	if err != nil {
		return err
	}

	depth := pcmfmt.BitDepth(in.Format.BitsPerSample)
	samples, err := pcmfmt.Decode(depth, in.Data)
	if err != nil {
		return err
	}

	channels := in.Format.Channels
	cfg.Channels = channels
	if cfg.FreezeStart < cfg.BlockSize {
		cfg.FreezeStart = cfg.BlockSize
		if cfg.FreezePeak < cfg.FreezeStart {
			cfg.FreezePeak = cfg.FreezeStart
		}
	}

	sess, err := spectrice.Init(cfg)
	if err != nil {
		return err
	}
	defer sess.Destroy()

	if cfg.Snapshot {
		if err := primeSnapshot(sess, cfg, samples, in, snapshotAt); err != nil {
			return err
		}
	}

	var sink *liveplay.Sink
	if monitor {
		s, err := liveplay.Open(float64(in.Format.SampleRate), channels, sess.HopSize())
		if err != nil {
			return err
		}
		defer s.Close()
		sink = s
	}

	hop := sess.HopSize()
	frames := len(samples) / channels
	numHops := (frames + hop - 1) / hop
	out := make([]float64, numHops*hop*channels)

	reporter := progress.New(os.Stderr, numHops)
	hopIn := make([]float64, hop*channels)
	hopOut := make([]float64, hop*channels)

	for h := 0; h < numHops; h++ {
		start := h * hop * channels
		n := copy(hopIn, samples[start:min(start+hop*channels, len(samples))])
		for i := n; i < hop*channels; i++ {
			hopIn[i] = 0
		}

		sess.Process(hopIn, hopOut)
		copy(out[start:start+hop*channels], hopOut)

		if sink != nil {
			if err := sink.Write(hopOut); err != nil {
				return err
			}
		}

		reporter.Update(h + 1)
	}
	reporter.Done()

	encoded, err := pcmfmt.Encode(depth, out)
	if err != nil {
		return err
	}

	return wav.Write(outPath, &wav.File{Format: in.Format, Data: encoded})
}

// primeSnapshot locates the reference block around pos (an interleaved
// sample-frame offset) and hands the engine the BlockSize*Channels
// interleaved window of context surrounding it.
func primeSnapshot(sess *spectrice.Session, cfg spectrice.Config, samples []float64, in *wav.File, snapshotAt int) error {
	pos := snapshotAt
	if pos < 0 {
		if len(in.Loops) == 0 {
			return fmt.Errorf("spectrice: --snapshot requires --snapshotat or a WAV smpl loop chunk")
		}
		pos = int(in.Loops[0].Start)
	}

	channels := cfg.Channels
	frames := len(samples) / channels
	half := cfg.BlockSize / 2
	startFrame := pos - half
	if startFrame < 0 || startFrame+cfg.BlockSize > frames {
		return fmt.Errorf("spectrice: snapshot position %d needs %d frames of context, only %d available", pos, cfg.BlockSize, frames)
	}

	start := startFrame * channels
	return sess.PrimeSnapshot(samples[start : start+cfg.BlockSize*channels])
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
