package cmd

import (
	"github.com/ArnaudCalmettes/landslide/models"
	"github.com/ArnaudCalmettes/landslide/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// adjustCmd represents the adjust command
var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Match test photographs to the training corpus brightness and contrast",
	Long: `Compute the mean and standard deviation of the training photographs,
rescale every test photograph to match them, black out pixels below the
threshold, and save the results as PNG files in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := adjustParams()
		if err != nil {
			return err
		}
		err = withLedger("adjust", params, func(rec pipeline.Recorder) error {
			return pipeline.Adjust(logContext(), params, rec)
		})
		if err == nil {
			log.Info().Str("output", params.OutputDir).Msg("done")
		}
		return err
	},
}

func adjustParams() (p pipeline.AdjustParams, err error) {
	if p.TrainDir, err = getPath("adjust.train"); err != nil {
		return
	}
	if p.TestDir, err = getPath("adjust.test"); err != nil {
		return
	}
	if p.OutputDir, err = getPath("adjust.out"); err != nil {
		return
	}
	p.Extension = viper.GetString("adjust.ext")
	p.Threshold = viper.GetInt("adjust.threshold")
	p.Workers = viper.GetInt("adjust.workers")
	err = p.Validate()
	return
}

// Run fn with a ledger recorder, when the ledger is enabled.
func withLedger(kind string, params interface{}, fn func(rec pipeline.Recorder) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	if db == nil {
		return fn(nil)
	}
	defer db.Close()

	run, err := models.StartRun(db, kind, params)
	if err != nil {
		return err
	}
	err = fn(models.NewLedger(db, run))
	if ferr := run.Finish(db, err); ferr != nil {
		log.Error().Err(ferr).Uint("run", run.ID).Msg("couldn't close run in the ledger")
	}
	return err
}

func init() {
	rootCmd.AddCommand(adjustCmd)

	flags := adjustCmd.Flags()
	flags.String("train", "", "training images directory")
	flags.String("test", "", "test images directory")
	flags.StringP("ext", "e", "", "image extension (e.g. .png)")
	flags.StringP("out", "o", "", "output directory")
	flags.IntP("threshold", "t", 128, "pixels below this value are set to black")
	flags.IntP("workers", "w", 1, "number of images processed in parallel")
	for _, name := range []string{"train", "test", "ext", "out", "threshold", "workers"} {
		viper.BindPFlag("adjust."+name, flags.Lookup(name))
	}
}
