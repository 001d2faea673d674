package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
	"github.com/cwbudde/airbloom/measure/level"
	"github.com/cwbudde/airbloom/plugin"
	"github.com/cwbudde/airbloom/plugin/params"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// thdWindow is the analysis length for tone renders.
const thdWindow = 8192

type result struct {
	preset string
	path   string
	stats  level.Stats
	thd    float64
	faults uint64
}

// run renders every preset in cfg concurrently and writes the WAV files.
// Results are in cfg.presets order.
func run(ctx context.Context, log logrus.FieldLogger, cfg config) ([]result, error) {
	if cfg.block < 1 {
		return nil, fmt.Errorf("block size must be >= 1: %d", cfg.block)
	}

	input, sampleRate, base, err := loadInput(cfg)
	if err != nil {
		return nil, err
	}

	input = withTail(input, int(cfg.tail*sampleRate))

	log.WithFields(logrus.Fields{
		"function":   "run",
		"input":      base,
		"frames":     input.Len(),
		"channels":   input.Channels(),
		"sampleRate": sampleRate,
		"presets":    len(cfg.presets),
	}).Info("Rendering")

	results := make([]result, len(cfg.presets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.jobs, 1))

	for i, name := range cfg.presets {
		g.Go(func() error {
			out, faults, err := renderPreset(ctx, log.WithField("preset", name), name, input, sampleRate, cfg.block)
			if err != nil {
				return fmt.Errorf("preset %q: %w", name, err)
			}

			path := filepath.Join(cfg.outDir, outputName(base, name))
			if err := writeWAV(path, out, int(sampleRate), cfg.bits); err != nil {
				return fmt.Errorf("preset %q: %w", name, err)
			}

			r := result{preset: name, path: path, stats: level.Measure(out), faults: faults}
			if cfg.input == "" {
				r.thd = toneDistortion(out, sampleRate, cfg.freq)
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func loadInput(cfg config) (*buffer.Multi, float64, string, error) {
	if cfg.input != "" {
		in, sampleRate, err := readWAV(cfg.input)
		if err != nil {
			return nil, 0, "", err
		}

		base := strings.TrimSuffix(filepath.Base(cfg.input), filepath.Ext(cfg.input))

		return in, sampleRate, base, nil
	}

	if cfg.rate <= 0 || cfg.seconds <= 0 {
		return nil, 0, "", errors.New("tone rate and length must be > 0")
	}

	frames := int(cfg.seconds * cfg.rate)

	return tone(cfg.channels, cfg.freq, core.DBToLinear(cfg.levelDB), cfg.rate, frames), cfg.rate, "tone", nil
}

// renderPreset processes in through a fresh processor with the named
// preset applied and returns the output and the fault count.
func renderPreset(ctx context.Context, log logrus.FieldLogger, name string, in *buffer.Multi,
	sampleRate float64, block int,
) (*buffer.Multi, uint64, error) {
	proc := plugin.New(params.NewStore(), plugin.WithLogger(log))
	if err := proc.Presets().Apply(name); err != nil {
		return nil, 0, err
	}

	spec := core.ProcessSpec{
		SampleRate:     sampleRate,
		MaxBlockSize:   block,
		InputChannels:  in.Channels(),
		OutputChannels: in.Channels(),
	}
	if err := proc.Prepare(spec); err != nil {
		return nil, 0, err
	}
	defer proc.Release()

	out := in.Clone()
	blk := buffer.NewMulti(in.Channels(), block)

	for start := 0; start < out.Len(); start += block {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		n := min(block, out.Len()-start)
		blk.Resize(out.Channels(), n)

		for ch := range out.Channels() {
			copy(blk.Channel(ch), out.Channel(ch)[start:start+n])
		}

		proc.Process(blk)

		for ch := range out.Channels() {
			copy(out.Channel(ch)[start:], blk.Channel(ch))
		}
	}

	return out, proc.Faults(), nil
}

func tone(channels int, freq, amplitude, sampleRate float64, frames int) *buffer.Multi {
	m := buffer.NewMulti(max(channels, 1), frames)
	step := 2 * math.Pi * freq / sampleRate

	for ch := range m.Channels() {
		data := m.Channel(ch)
		for i := range data {
			data[i] = amplitude * math.Sin(step*float64(i))
		}
	}

	return m
}

func withTail(in *buffer.Multi, frames int) *buffer.Multi {
	if frames <= 0 {
		return in
	}

	in.Resize(in.Channels(), in.Len()+frames)

	return in
}

// toneDistortion measures THD on the first channel after the smoothing
// ramps have settled. It returns NaN when the render is too short.
func toneDistortion(out *buffer.Multi, sampleRate, freq float64) float64 {
	skip := int(0.1 * sampleRate)
	data := out.Channel(0)

	if len(data) < skip+thdWindow {
		return math.NaN()
	}

	thd, err := level.HarmonicDistortion(data[skip:skip+thdWindow], sampleRate, freq, 9)
	if err != nil {
		return math.NaN()
	}

	return thd
}

func outputName(base, presetName string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(presetName), "-"))
	return base + "-" + slug + ".wav"
}

func printResults(w io.Writer, results []result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Preset\tFile\tRMS [dBFS]\tPeak [dBFS]\tTHD [%%]\tFaults\n"); err != nil {
		return err
	}

	for _, r := range results {
		thd := "-"
		if !math.IsNaN(r.thd) && r.thd > 0 {
			thd = fmt.Sprintf("%.2f", 100*r.thd)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.preset, r.path, formatDB(r.stats.RMSDB()), formatDB(r.stats.PeakDB()), thd, r.faults); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func formatDB(db float64) string {
	if db == level.SilenceDB {
		return "-inf"
	}

	return fmt.Sprintf("%.2f", db)
}
