package cmd

import (
	"context"
	"fmt"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"armdis/internal/armdis/log"
	"armdis/internal/logging"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("log-file", "", "Write debug logs to this file")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing instead of opening the viewer")
	rootCmd.Flags().StringP("base", "b", "0", "Load address for raw binaries")
	rootCmd.Flags().BoolP("thumb", "t", false, "Decode everything as Thumb")
	rootCmd.Flags().Bool("arm", false, "Decode everything as ARM")
	rootCmd.Flags().StringP("symbol", "s", "", "Start with this function")
	rootCmd.Flags().BoolP("lower", "l", false, "Lowercase mnemonics")
	rootCmd.Flags().Int("count", 0, "Stop after this many instructions")
	rootCmd.Flags().Bool("compare", false, "Cross-check ARM code with the armasm decoder")
	rootCmd.Flags().Bool("calls", false, "List call sites with traced arguments")
	rootCmd.Flags().BoolP("json", "j", false, "Output the stream as JSON")
	rootCmd.Flags().Bool("no-color", false, "Disable syntax highlighting")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
}

var rootCmd = &cobra.Command{
	Use:   "armdis [file]",
	Short: "ARM, Thumb and Thumb2 disassembler",
	Long: `armdis decodes 32-bit ARM, 16-bit Thumb and 32-bit Thumb2 instructions
into structured records and renders them in assembler syntax.

Given a file it opens an interactive listing. When output is not a terminal,
or with --no-tui, the listing is printed instead.`,
	Example: `
# Browse an ARM ELF interactively
armdis firmware.elf

# Print the listing
armdis -n firmware.elf | less

# Decode single words
armdis decode e92d4010
armdis decode --thumb b510 f000f800
  `,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ResolveCwd(cmd); err != nil {
			return err
		}
		cfg, err := loadConfig(ConfigFile)
		if err != nil {
			return err
		}
		if err := applyConfig(cmd, cfg); err != nil {
			return err
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logFile, _ := cmd.Flags().GetString("log-file")
		if debug && os.Getenv("ARMDIS_LOG_LEVEL") == "" {
			os.Setenv("ARMDIS_LOG_LEVEL", "debug")
		}
		log.Setup(logFile, debug || logging.IsDebug())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
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

		absPath, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %v", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return fmt.Errorf("file not found: %s", args[0])
		}

		opts, err := dumpFlags(cmd)
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if noTUI || opts.JSON || !stdoutIsTerminal() {
			lg := logging.NewLogger()
			defer lg.Close()
			return runDump(cmd.OutOrStdout(), lg.Logger, absPath, opts)
		}

		p := tea.NewProgram(
			NewModel(absPath, opts),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		_, err = p.Run()
		return err
	},
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

func Execute() {
	// Plain cobra when piping or printing, so fang does not restyle the output.
	noTUI := !stdoutIsTerminal()
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" {
			noTUI = true
			break
		}
	}

	if noTUI {
		if err := rootCmd.ExecuteContext(context.Background()); err != nil {
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
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
