package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ArnaudCalmettes/landslide/imp"
)

// AdjustParams configures a normalization run.
type AdjustParams struct {
	TrainDir  string `json:"train_dir"`
	TestDir   string `json:"test_dir"`
	Extension string `json:"extension"`
	OutputDir string `json:"output_dir"`
	Threshold int    `json:"threshold"`
	Workers   int    `json:"workers,omitempty"`
}

// Validate checks that every required parameter was given.
func (p AdjustParams) Validate() error {
	if p.TrainDir == "" || p.TestDir == "" || p.Extension == "" || p.OutputDir == "" {
		return errors.New("train, test, extension and output parameters are all required")
	}
	if p.Threshold < 0 {
		return fmt.Errorf("invalid threshold %d", p.Threshold)
	}
	if p.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", p.Workers)
	}
	return nil
}

// Size is the (height, width, channels) shape a model expects its input in.
type Size struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// DefaultInputSize is the input shape of the bare ground segmentation model.
var DefaultInputSize = Size{Height: 224, Width: 224, Channels: 3}

func (s Size) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

// ParseSize parses sizes written as "HxW" or "HxWxC". Channels default to 3.
func ParseSize(s string) (Size, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 && len(parts) != 3 {
		return Size{}, fmt.Errorf("invalid size %q (want HxW or HxWxC)", s)
	}

	dims := make([]int, 3)
	dims[2] = 3
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v <= 0 {
			return Size{}, fmt.Errorf("invalid size %q (want HxW or HxWxC)", s)
		}
		dims[i] = v
	}
	return Size{Height: dims[0], Width: dims[1], Channels: dims[2]}, nil
}

// SegmentParams configures a segmentation run. ModelPath is informative: the
// model itself is handed to Segment already loaded.
type SegmentParams struct {
	TestDir   string `json:"test_dir"`
	Extension string `json:"extension"`
	ModelPath string `json:"model_path"`
	OutputDir string `json:"output_dir"`
	InputSize Size   `json:"input_size"`
}

// Validate checks that every required parameter was given.
func (p SegmentParams) Validate() error {
	if p.TestDir == "" || p.Extension == "" || p.OutputDir == "" {
		return errors.New("test, extension and output parameters are all required")
	}
	if p.InputSize.Height <= 0 || p.InputSize.Width <= 0 {
		return fmt.Errorf("invalid input size %v", p.InputSize)
	}
	if p.InputSize.Channels != 3 {
		return fmt.Errorf("input size %v: only 3 channel models are supported", p.InputSize)
	}
	return nil
}

// Entry describes one file written by a pipeline.
type Entry struct {
	Input        string
	Output       string
	Stats        imp.Stats
	BareFraction float64
}

// A Recorder keeps track of what a run produced.
type Recorder interface {
	Reference(st imp.Stats) error
	Record(e Entry) error
}
