package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/quotevoice/internal/bus"
	"github.com/leonardotrapani/quotevoice/internal/config"
	"github.com/leonardotrapani/quotevoice/internal/daemon"
	"github.com/leonardotrapani/quotevoice/internal/deps"
	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/metrics"
	"github.com/leonardotrapani/quotevoice/internal/models/whisper"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/session"
	"github.com/leonardotrapani/quotevoice/internal/transcriber"
	"github.com/leonardotrapani/quotevoice/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quotevoice",
		Short:        "Count the words of spoken or typed quotes and keep a log of them",
		SilenceUsage: true,
	}

	root.AddCommand(
		runCmd(),
		serveCmd(),
		attachCmd(),
		statusCmd(),
		stopCmd(),
		versionCmd(),
		transcribeCmd(),
		metricsCmd(),
		logCmd(),
		configCmd(),
		configureCmd(),
		doctorCmd(),
		modelCmd(),
	)
	return root
}

// loadConfig reads the user config and applies its logging section.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Setup(cfg.ToLoggingOptions()); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), cfg)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			mgr, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}
			return daemon.New(mgr).Run()
		},
	}
}

func attachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach",
		Short: "Open a session on the daemon and type protocol commands",
		Long: `Opens one session on the running daemon. Each input line is sent as a
request, for example:

  AUDIO /path/to/take.wav
  PASS
  TEXT To be or not to be
  SUBMIT 2
  LOG
  QUIT`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, greeting, err := bus.Connect()
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer c.Close()

			fmt.Fprintln(cmd.OutOrStdout(), greeting.Line())
			return attach(c, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// attach relays input lines to the session until QUIT, SHUTDOWN or end of input.
func attach(c *bus.Client, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest := bus.SplitLine(line)
		var args []string
		if rest != "" {
			args = []string{rest}
		}

		reply, err := c.Send(name, args...)
		if err != nil {
			return fmt.Errorf("session ended: %w", err)
		}
		printReply(out, reply)

		switch strings.ToUpper(name) {
		case bus.CmdQuit, bus.CmdShutdown:
			return nil
		}
	}
	return scanner.Err()
}

func printReply(out io.Writer, reply bus.Reply) {
	for _, n := range reply.Notices {
		fmt.Fprintf(out, "%s %s\n", bus.KindNotify, n)
	}
	for _, r := range reply.Rows {
		fmt.Fprintf(out, "%s %s\n", bus.KindRow, r)
	}
	fmt.Fprintln(out, reply.Line())
}

// sendCmd builds a command that sends one request to the daemon.
func sendCmd(use, short, request string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := bus.SendCommand(request)
			if err != nil {
				return fmt.Errorf("failed to reach daemon: %w", err)
			}
			printReply(cmd.OutOrStdout(), reply)
			return reply.Err()
		},
	}
}

func statusCmd() *cobra.Command {
	return sendCmd("status", "Get the daemon status", bus.CmdStatus)
}

func stopCmd() *cobra.Command {
	return sendCmd("stop", "Stop the daemon", bus.CmdShutdown)
}

func versionCmd() *cobra.Command {
	return sendCmd("version", "Get protocol version", bus.CmdVersion)
}

func transcribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <wav>",
		Short: "Transcribe one recording with the configured engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := transcriber.NewAdapter(cfg.ToTranscriberConfig())
			if err != nil {
				return fmt.Errorf("failed to create transcriber: %w", err)
			}
			return transcribe(cmd.Context(), cmd.OutOrStdout(), engine, cfg, args[0])
		},
	}
}

// transcribe runs one render pass over the file, with the same retry rules
// as an interactive session.
func transcribe(ctx context.Context, out io.Writer, engine transcriber.BatchAdapter, cfg *config.Config, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	ctrl := session.NewController(engine, session.WithMaxRetryDuration(cfg.Transcription.MaxRetryDuration))
	st, command := ctrl.OnRenderPass(ctx, payload, session.New())
	messages := cfg.Notifications.Messages.Resolve()

	switch command {
	case session.Rerun:
		fmt.Fprintln(out, ctrl.ApplyPending(st).QuoteText)
		return nil
	case session.NotifyNoSpeechDetected, session.NotifyTranscriptionFailed:
		mt, _ := command.Message()
		return errors.New(messages[mt].Body)
	default:
		return fmt.Errorf("unexpected result: %s", command)
	}
}

func metricsCmd() *cobra.Command {
	var exponent int

	cmd := &cobra.Command{
		Use:   "metrics <text>",
		Short: "Compute word count, power and difference for a quote",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := metrics.Compute(strings.Join(args, " "), exponent)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "words:      %d\n", m.WordCount)
			fmt.Fprintf(out, "power:      %s\n", m.PowerString())
			fmt.Fprintf(out, "difference: %s\n", m.DifferenceString())
			return nil
		},
	}

	cmd.Flags().IntVarP(&exponent, "exponent", "e", metrics.DefaultExponent, "power = words ^ exponent")
	return cmd
}

func logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the quote log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := cfg.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open quote log: %w", err)
			}
			defer store.Close()

			fmt.Fprintln(cmd.OutOrStdout(), tui.LogView(quotelog.LoadOrEmpty(cmd.Context(), store)))
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.SaveDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := tui.Configure(cfg)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if result.Cancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration cancelled.")
				return nil
			}

			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if err := config.Save(result.Config, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "A running daemon picks it up for new sessions.")
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs, model and storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return doctor(cmd.OutOrStdout(), cfg)
		},
	}
}

func doctor(out io.Writer, cfg *config.Config) error {
	for _, tool := range deps.Tools() {
		fmt.Fprintln(out, doctorLine(tool, deps.Check(tool)))
	}

	if cfg.Transcription.Provider == "whisper-cpp" {
		if _, err := os.Stat(cfg.Transcription.Model); err != nil {
			fmt.Fprintf(out, "  [ ] model %s (run: quotevoice model download %s)\n", cfg.Transcription.Model, whisper.DefaultModel)
		} else {
			fmt.Fprintf(out, "  [x] model %s\n", cfg.Transcription.Model)
		}
	}

	path := cfg.Storage.Path
	if path == "" {
		p, err := quotelog.DefaultPath(cfg.Storage.Backend)
		if err != nil {
			return err
		}
		path = p
	}
	fmt.Fprintf(out, "  quote log %s (%s)\n", path, cfg.Storage.Backend)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "  config problem: %v\n", err)
	}
	return nil
}

func doctorLine(tool deps.Tool, status deps.Status) string {
	if !status.Installed {
		return fmt.Sprintf("  [ ] %s (%s) not found, needed for %s", tool.Binary, tool.Name, tool.Purpose)
	}
	line := fmt.Sprintf("  [x] %s %s", tool.Binary, status.Path)
	if status.Version != "" {
		line += fmt.Sprintf(" [%s]", status.Version)
	}
	return line
}

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage whisper.cpp models",
	}

	cmd.AddCommand(modelListCmd(), modelDownloadCmd(), modelRemoveCmd())
	return cmd
}

func modelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List downloadable models",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range whisper.List() {
				prefix := "  [ ]"
				if whisper.IsInstalled(m.ID) {
					prefix = "  [x]"
				}
				fmt.Fprintf(out, "%s %s [%s]\n", prefix, m.ID, m.Size)
			}
			return nil
		},
	}
}

func modelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download [model]",
		Short: "Download a model (default: " + whisper.DefaultModel + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := whisper.DefaultModel
			if len(args) == 1 {
				id = args[0]
			}
			return downloadModel(cmd.Context(), cmd.OutOrStdout(), whisper.NewDownloader(), id)
		},
	}
}

func downloadModel(ctx context.Context, out io.Writer, d *whisper.Downloader, id string) error {
	m, ok := whisper.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown model: %s", id)
	}
	if whisper.IsInstalled(id) {
		path, _ := whisper.Path(id)
		fmt.Fprintf(out, "model '%s' is already installed at %s\n", id, path)
		return nil
	}

	fmt.Fprintf(out, "downloading %s (%s)...\n", id, m.Size)

	var lastPercent int
	path, err := d.Download(ctx, id, func(downloaded, total int64) {
		if total > 0 {
			percent := int(downloaded * 100 / total)
			if percent >= lastPercent+10 {
				fmt.Fprintf(out, "%d%% ", percent)
				lastPercent = percent
			}
		}
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintf(out, "\ndownload complete: %s\n", path)
	return nil
}

func modelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := whisper.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "model '%s' removed\n", args[0])
			return nil
		},
	}
}
