package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"wobj/internal/config"
	"wobj/internal/disasm"
	"wobj/internal/logging"
	"wobj/internal/objfile"
	wlog "wobj/internal/wobj/log"
)

const defaultWidth = 80

// session is everything a command needs once flags and config are settled.
type session struct {
	cfg    config.Config
	logger *logging.LoggerCloser
	file   *objfile.File
	out    io.Writer
	tty    bool
	color  bool
	width  int
}

func (s *session) Close() error {
	return s.logger.Close()
}

// listingFormat derives the listing columns from config, letting explicitly
// set flags win.
func (s *session) listingFormat(cmd *cobra.Command) listingFormat {
	lf := listingFormat{
		addresses: s.cfg.ShowAddresses,
		words:     s.cfg.ShowWords,
		labels:    s.cfg.ResolveLabels,
		color:     s.color,
	}
	if f := cmd.Flags().Lookup("addresses"); f != nil && f.Changed {
		lf.addresses, _ = cmd.Flags().GetBool("addresses")
	}
	if f := cmd.Flags().Lookup("words"); f != nil && f.Changed {
		lf.words, _ = cmd.Flags().GetBool("words")
	}
	if f := cmd.Flags().Lookup("no-labels"); f != nil && f.Changed {
		noLabels, _ := cmd.Flags().GetBool("no-labels")
		lf.labels = !noLabels
	}
	return lf
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// openSession loads config, sets up logging and loads the object file.
func openSession(cmd *cobra.Command, path string) (*session, error) {
	if _, err := ResolveCwd(cmd); err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	wlog.Setup(cmd.ErrOrStderr(), debug)
	logger := logging.NewLogger(level)

	s := &session{
		cfg:    cfg,
		logger: logger,
		out:    cmd.OutOrStdout(),
		width:  cfg.Width,
	}
	s.tty = isTerminal(s.out)
	s.color = cfg.Color && s.tty
	if s.width == 0 {
		s.width = defaultWidth
		if f, ok := s.out.(*os.File); ok && s.tty {
			if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
				s.width = w
			}
		}
	}

	if _, err := os.Stat(path); err != nil {
		logger.Close()
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	loader := &objfile.Loader{Logger: logger.Logger}
	if s.file, err = loader.Open(path); err != nil {
		logger.Error("Load failed", "file", path, "err", err)
		logger.Close()
		return nil, err
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wobj [file]",
		Short: "WRAMP object file reader and disassembler",
		Long: `wobj reads WRAMP object files. By default it reports the header, segment
layout and relocation records; -d disassembles the TEXT segment.
On a terminal without flags it opens an interactive viewer.`,
		Example: `
# Show the header report
wobj prog.o

# Disassemble TEXT, then dump DATA and BSS
wobj -d --data prog.o

# Machine readable output
wobj --json prog.o
  `,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $WOBJ_CONFIG or $XDG_CONFIG_HOME/wobj/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug logging")
	rootCmd.PersistentFlags().Bool("addresses", false, "Print the address column")
	rootCmd.PersistentFlags().Bool("words", false, "Print the raw word column")
	rootCmd.PersistentFlags().Bool("no-labels", false, "Print jump and branch targets numerically")

	rootCmd.Flags().BoolP("disassemble", "d", false, "Disassemble the TEXT segment")
	rootCmd.Flags().Bool("data", false, "Dump DATA and BSS as directives")
	rootCmd.Flags().BoolP("json", "j", false, "Output header, labels and listing as JSON")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the report instead of opening the viewer")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(newDumpCmd(), newLabelsCmd(), newSchemaCmd())
	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	memprofile, _ := cmd.Flags().GetString("memprofile")
	if memprofile != "" {
		defer func() {
			f, err := os.Create(memprofile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
				return
			}
			defer f.Close()
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
			}
		}()
	}

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	disassemble, _ := cmd.Flags().GetBool("disassemble")
	data, _ := cmd.Flags().GetBool("data")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noTUI, _ := cmd.Flags().GetBool("no-tui")
	lf := s.listingFormat(cmd)

	switch {
	case jsonOutput:
		return writeJSON(s.out, s.file, lf.labels, data)

	case disassemble || data:
		if disassemble {
			ls := disasm.Disassemble(s.file, disasm.Options{NoLabels: !lf.labels})
			if n := ls.Unknown(); n > 0 {
				s.logger.Warn("Unknown instructions", "count", n)
			}
			if err := lf.write(s.out, ls); err != nil {
				return err
			}
		}
		if data {
			if err := lf.write(s.out, disasm.DumpData(s.file)); err != nil {
				return err
			}
			return lf.write(s.out, disasm.DumpBSS(s.file))
		}
		return nil

	case !noTUI && s.tty:
		program := tea.NewProgram(
			newModel(s.file, lf, s.width),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil

	default:
		return writeReport(s.out, s.file, s.color, s.width)
	}
}

// Execute runs the root command and exits 1 on error. Piped output and the
// plain output flags bypass fang.
func Execute() {
	rootCmd := newRootCmd()

	plain := !term.IsTerminal(os.Stdout.Fd())
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-tui", "-n", "--json", "-j":
			plain = true
		}
	}

	if plain {
		if err := rootCmd.Execute(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %w", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}

// relPath shortens path relative to the working directory when possible.
func relPath(path string) string {
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, path); err == nil {
			return rel
		}
	}
	return path
}
