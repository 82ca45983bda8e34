package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"wobj/internal/analysis"
	"wobj/internal/disasm"
	"wobj/internal/ui/colorize"
)

func newDumpCmd() *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Dump the DATA and BSS segments",
		Long: `Dump the DATA segment as .word directives and BSS as .space directives.
With --strings, recover NUL terminated strings stored one character per
DATA word instead.`,
		Example: `
# Dump DATA and BSS
wobj dump prog.o

# Recover strings of at least 4 characters
wobj dump --strings --min 4 prog.o
  `,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			lf := s.listingFormat(cmd)
			strs, _ := cmd.Flags().GetBool("strings")
			if !strs {
				if err := lf.write(s.out, disasm.DumpData(s.file)); err != nil {
					return err
				}
				return lf.write(s.out, disasm.DumpBSS(s.file))
			}

			minLen, _ := cmd.Flags().GetInt("min")
			found := analysis.RecoverStrings(s.file, minLen)
			s.logger.Debug("Strings recovered", "count", len(found), "min", minLen)

			bw := bufio.NewWriter(s.out)
			for _, str := range found {
				if lf.labels && str.Label != "" {
					label := str.Label + ":"
					if lf.color {
						label = colorize.Line(label)
					}
					fmt.Fprintln(bw, label)
				}
				text := str.Directive()
				if lf.color {
					text = colorize.Line(text)
				}
				if lf.addresses {
					fmt.Fprintf(bw, "%s  ", lf.addressColumn(str.Addr))
				}
				fmt.Fprintln(bw, text)
			}
			return bw.Flush()
		},
	}
	dumpCmd.Flags().Bool("strings", false, "Recover strings from DATA")
	dumpCmd.Flags().Int("min", analysis.MinStringLength, "Minimum recovered string length")
	return dumpCmd
}
