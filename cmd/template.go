package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fund-report-compiler/internal/xlsxledger"
)

var templateOut string

// templateCmd writes an empty ledger workbook in the default column layout.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an empty ledger workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := xlsxledger.WriteTemplate(templateOut, nil, nil); err != nil {
			return err
		}
		fmt.Printf("Ledger template written to %s\n", templateOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVar(&templateOut, "out", "ledger.xlsx", "Path of the workbook to write")
}
