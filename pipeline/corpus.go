package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ArnaudCalmettes/landslide/imp"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
)

// ListImages returns the paths of the files in dir whose name ends with ext,
// sorted by name. Hidden files and sub-directories are ignored.
func ListImages(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// ImageStat pairs an image file with its statistics.
type ImageStat struct {
	Path string
	imp.Stats
}

// CorpusStats computes the statistics of every (grayscale) image of dir
// matching ext, and averages them: the result holds the mean of the means
// and the mean of the standard deviations.
func CorpusStats(ctx context.Context, dir, ext string) (imp.Stats, error) {
	st, _, err := CorpusDetails(ctx, dir, ext)
	return st, err
}

// CorpusDetails works like CorpusStats, but also returns per-image results.
func CorpusDetails(ctx context.Context, dir, ext string) (imp.Stats, []ImageStat, error) {
	paths, err := ListImages(dir, ext)
	if err != nil {
		return imp.Stats{}, nil, err
	}
	if len(paths) == 0 {
		return imp.Stats{}, nil, &EmptyCorpusError{Dir: dir, Extension: ext}
	}

	details := make([]ImageStat, 0, len(paths))
	means := make(stats.Float64Data, 0, len(paths))
	stds := make(stats.Float64Data, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return imp.Stats{}, nil, err
		}

		img, err := imp.ReadFile(path, imp.Grayscale)
		if err != nil {
			return imp.Stats{}, nil, &Error{Path: path, Err: err}
		}
		st := imp.ImageStats(img)
		log.Ctx(ctx).Debug().Str("file", path).Float64("mean", st.Mean).Float64("std", st.StdDev).Msg("image statistics")

		details = append(details, ImageStat{Path: path, Stats: st})
		means = append(means, st.Mean)
		stds = append(stds, st.StdDev)
	}

	mean, err := means.Mean()
	if err != nil {
		return imp.Stats{}, nil, err
	}
	std, err := stds.Mean()
	if err != nil {
		return imp.Stats{}, nil, err
	}
	return imp.Stats{Mean: mean, StdDev: std}, details, nil
}
