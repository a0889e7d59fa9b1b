package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ArnaudCalmettes/landslide/imp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// AdjustedExt is the extension of every normalized image.
const AdjustedExt = ".png"

// AdjustedName returns the name a normalized image is saved under.
func AdjustedName(input string) string {
	return baseName(input) + AdjustedExt
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Adjust matches the brightness and contrast of every test image to the
// training corpus, blacks out what falls below the threshold, and saves
// the results as PNG files in the output directory.
//
// The run stops on the first failing file. Files written before that are
// left in place. rec may be nil.
func Adjust(ctx context.Context, p AdjustParams, rec Recorder) error {
	if err := p.Validate(); err != nil {
		return err
	}
	logger := log.Ctx(ctx)
	rec = syncRecorder(rec)

	target, err := CorpusStats(ctx, p.TrainDir, p.Extension)
	if err != nil {
		return err
	}
	logger.Info().Str("dir", p.TrainDir).Float64("mean", target.Mean).Float64("std", target.StdDev).Msg("training corpus")
	if err := rec.Reference(target); err != nil {
		return err
	}

	paths, err := ListImages(p.TestDir, p.Extension)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return &EmptyCorpusError{Dir: p.TestDir, Extension: p.Extension}
	}
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return err
	}

	process := func(ctx context.Context, path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := adjustFile(path, target, p.OutputDir, p.Threshold)
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		logger.Info().Str("file", path).Str("output", e.Output).
			Float64("mean", e.Stats.Mean).Float64("std", e.Stats.StdDev).Msg("adjusted")
		return rec.Record(e)
	}

	if p.Workers > 1 {
		if a, b, clash := nameClash(paths); clash {
			logger.Warn().Str("file", a).Str("other", b).Str("output", AdjustedName(a)).
				Msg("inputs share an output name, processing sequentially")
			p.Workers = 1
		}
	}

	if p.Workers <= 1 {
		for _, path := range paths {
			if err := process(ctx, path); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for _, path := range paths {
		g.Go(func() error {
			return process(gctx, path)
		})
	}
	return g.Wait()
}

// nameClash reports two inputs that would be saved under the same name.
func nameClash(paths []string) (a, b string, clash bool) {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := AdjustedName(path)
		if other, ok := seen[name]; ok {
			return other, path, true
		}
		seen[name] = path
	}
	return "", "", false
}

func adjustFile(path string, target imp.Stats, outDir string, threshold int) (Entry, error) {
	img, err := imp.ReadFile(path, imp.Grayscale)
	if err != nil {
		return Entry{}, err
	}

	st := imp.ImageStats(img)
	adjusted := imp.SuppressBelow(imp.Normalize(img, st, target), threshold)

	output := filepath.Join(outDir, AdjustedName(path))
	if err := imp.Save(output, adjusted); err != nil {
		return Entry{}, err
	}
	return Entry{Input: path, Output: output, Stats: st}, nil
}

type lockedRecorder struct {
	mu  sync.Mutex
	rec Recorder
}

// syncRecorder makes rec safe to share between workers. A nil Recorder
// discards everything.
func syncRecorder(rec Recorder) Recorder {
	return &lockedRecorder{rec: rec}
}

func (r *lockedRecorder) Reference(st imp.Stats) error {
	if r.rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Reference(st)
}

func (r *lockedRecorder) Record(e Entry) error {
	if r.rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Record(e)
}
