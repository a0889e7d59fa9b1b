package cmd

import (
	"errors"

	"github.com/ArnaudCalmettes/landslide/infer/tflite"
	"github.com/ArnaudCalmettes/landslide/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Detect bare ground in test photographs",
	Long: `Run the segmentation model on every test photograph and save a black
(bare ground) on white mask, at the photograph's resolution, as
<name>_Seg.jpg in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := segmentParams()
		if err != nil {
			return err
		}

		model, err := tflite.Load(params.ModelPath, viper.GetInt("segment.threads"))
		if err != nil {
			return err
		}
		defer model.Close()
		log.Debug().Str("model", params.ModelPath).Ints("input", model.InputShape()).Msg("model loaded")

		err = withLedger("segment", params, func(rec pipeline.Recorder) error {
			return pipeline.Segment(logContext(), params, model, rec)
		})
		if err == nil {
			log.Info().Str("output", params.OutputDir).Msg("done")
		}
		return err
	},
}

func segmentParams() (p pipeline.SegmentParams, err error) {
	if p.TestDir, err = getPath("segment.test"); err != nil {
		return
	}
	if p.ModelPath, err = getPath("segment.model"); err != nil {
		return
	}
	if p.OutputDir, err = getPath("segment.out"); err != nil {
		return
	}
	p.Extension = viper.GetString("segment.ext")
	if p.InputSize, err = pipeline.ParseSize(viper.GetString("segment.size")); err != nil {
		return
	}
	if p.ModelPath == "" {
		err = errors.New("a model file is required")
		return
	}
	err = p.Validate()
	return
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	flags := segmentCmd.Flags()
	flags.String("test", "", "test images directory")
	flags.StringP("ext", "e", "", "image extension (e.g. .png)")
	flags.StringP("model", "m", "", "TensorFlow Lite model file")
	flags.StringP("out", "o", "", "output directory")
	flags.String("size", pipeline.DefaultInputSize.String(), "model input size (HxW or HxWxC)")
	flags.Int("threads", 0, "interpreter threads (0 lets TensorFlow Lite decide)")
	for _, name := range []string{"test", "ext", "model", "out", "size", "threads"} {
		viper.BindPFlag("segment."+name, flags.Lookup(name))
	}
}
