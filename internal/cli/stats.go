package cli

import (
	"io"
	"strconv"

	"github.com/aevon-lab/sparkify-dwh/internal/pipeline"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the row count of every warehouse table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		counts, err := s.runner.Stats(cmd.Context())
		if err != nil {
			return err
		}
		renderCounts(cmd.OutOrStdout(), counts)
		return nil
	},
}

func renderCounts(w io.Writer, counts []pipeline.TableCount) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(true)
	table.SetHeader([]string{"Table", "Rows"})
	for _, c := range counts {
		table.Append([]string{c.Table, strconv.FormatInt(c.Rows, 10)})
	}
	table.Render()
}
