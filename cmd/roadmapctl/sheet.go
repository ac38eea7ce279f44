package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportYear int

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Create initiatives from the first sheet of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		a, err := e.openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := a.Services.Spreadsheet.Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "created=%d skipped=%d errors=%d\n", res.Created, res.Skipped, len(res.Errors))
		for _, re := range res.Errors {
			fmt.Fprintf(out, "  row %d: %s\n", re.Row, re.Message)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write initiatives to a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		a, err := e.openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var year *int
		if cmd.Flags().Changed("year") {
			year = &exportYear
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := a.Services.Spreadsheet.Export(cmd.Context(), year, f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "only initiatives of this year")
}
