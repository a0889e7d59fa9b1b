package cmd

import (
	"os"
	"strconv"

	"github.com/ArnaudCalmettes/landslide/models"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs [ID]",
	Short: "List the runs recorded in the ledger, or the files of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if db == nil {
			return errNoDB
		}
		defer db.Close()

		table := tablewriter.NewWriter(os.Stdout)
		if len(args) == 1 {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			run, err := models.FindRun(db, uint(id))
			if err != nil {
				return err
			}
			table.SetHeader([]string{"Input", "Output", "Mean", "Std", "Bare"})
			for _, o := range run.Outputs {
				table.Append([]string{o.Input, o.Path, fmtFloat(o.Mean), fmtFloat(o.StdDev), fmtFloat(o.BareFraction)})
			}
			table.Render()
			return nil
		}

		runs, err := models.ListRuns(db, runsLimit)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"ID", "Kind", "Started", "Status", "Files", "Target mean", "Target std", "Error"})
		for _, r := range runs {
			table.Append([]string{
				strconv.FormatUint(uint64(r.ID), 10),
				r.Kind,
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				strconv.Itoa(r.Processed),
				fmtFloat(r.TargetMean),
				fmtFloat(r.TargetStd),
				r.Error,
			})
		}
		table.Render()
		return nil
	},
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs to list (0 for all)")
}
