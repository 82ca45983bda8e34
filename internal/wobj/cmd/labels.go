package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"wobj/internal/analysis"
	"wobj/internal/disasm"
)

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels [file]",
		Short: "List labels with cross reference counts",
		Long: `List every label defined or referenced by the object file, with the
number of instructions whose jump or branch target names it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			refs := analysis.CrossReferences(s.file, disasm.Disassemble(s.file, disasm.Options{}))
			if len(refs) == 0 {
				_, err := fmt.Fprintln(s.out, "no labels")
				return err
			}

			rows := make([][]string, 0, len(refs))
			for _, l := range refs {
				addr := "external"
				if l.Resolved {
					addr = fmt.Sprintf("0x%05x", l.Address)
				}
				rows = append(rows, []string{l.Name, addr, l.Segment.String(), scope(l.LabelEntry), fmt.Sprint(len(l.Refs))})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Name", "Address", "Segment", "Scope", "Refs").
				Rows(rows...)
			_, err = fmt.Fprintln(s.out, t.String())
			return err
		},
	}
}
