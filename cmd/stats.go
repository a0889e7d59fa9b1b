package cmd

import (
	"os"
	"path/filepath"

	"github.com/ArnaudCalmettes/landslide/pipeline"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats DIR",
	Short: "Print the brightness statistics of a directory of images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := homedir.Expand(args[0])
		if err != nil {
			return err
		}
		corpus, details, err := pipeline.CorpusDetails(logContext(), dir, viper.GetString("stats.ext"))
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"File", "Mean", "Std"})
		for _, d := range details {
			table.Append([]string{filepath.Base(d.Path), fmtFloat(d.Mean), fmtFloat(d.StdDev)})
		}
		table.SetFooter([]string{"Corpus", fmtFloat(corpus.Mean), fmtFloat(corpus.StdDev)})
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("ext", "e", ".png", "image extension")
	viper.BindPFlag("stats.ext", statsCmd.Flags().Lookup("ext"))
}
