package app

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/analyzer"
	"github.com/blackwell-systems/basketminer/internal/output"
	"github.com/blackwell-systems/basketminer/internal/watcher"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool
	watchInitialScan bool

	watchCmd = &cobra.Command{
		Use:   "watch <dir>",
		Short: "Mine transaction files as they appear in a directory",
		Long: `Watch follows a directory and mines every .csv transaction file that is
created or rewritten there, recording one run per file.

A file is mined once it has been quiet for the debounce period, so files
written in several steps are read only when complete.

Watch modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as a background process
  • Stop: Stop a running daemon`,
		Example: `  # Mine files dropped into ./incoming (Ctrl+C to stop)
  basketminer watch incoming --min-support 10%

  # Also mine the files already there
  basketminer watch incoming --initial-scan

  # Run as background daemon, then stop it
  basketminer watch incoming --daemon
  basketminer watch --stop`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
)

func init() {
	addMiningFlags(watchCmd)
	watchCmd.Flags().Duration("watch-debounce", 0, "quiet period before a file is mined (default 500ms)")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "mine files already in the directory first")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.basketminer/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.basketminer/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}

	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopWatchDaemon(cmd)
	}

	if len(args) == 0 {
		return fmt.Errorf("watch requires a directory")
	}
	dir := args[0]

	if watchDaemon {
		return startWatchDaemon(cmd, os.Args[1:])
	}

	params, err := miningParams()
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	a, st, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	opts := []watcher.Option{
		watcher.WithDebounce(cfg.WatchDebounce),
		watcher.WithLogger(logger),
	}
	if watchInitialScan {
		opts = append(opts, watcher.WithInitialScan())
	}

	w, err := watcher.New(dir, mineFileHandler(a, params), opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if watchDaemonChild {
		return watcher.RunDaemon(w, watchPIDFile)
	}
	return runWatchForeground(cmd, w, dir)
}

// mineFileHandler mines one settled file as its own dataset.
func mineFileHandler(a *analyzer.Analyzer, params analyzer.Params) watcher.Handler {
	return func(path string) error {
		ds, err := loadDataset([]string{path})
		if err != nil {
			return err
		}
		res, err := a.Mine(ds, params)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"dataset":      res.Dataset,
			"run_id":       res.RunID,
			"transactions": res.Transactions,
			"itemsets":     len(res.Itemsets),
			"rules":        len(res.Rules),
		}).Info("mined file")
		return nil
	}
}

func stopWatchDaemon(cmd *cobra.Command) error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon")
	spinner.SetWriter(cmd.ErrOrStderr())
	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")
	return nil
}

// daemonChildArgs returns the command line for the daemon child: the same
// arguments with every form of --daemon removed.
func daemonChildArgs(args []string) []string {
	childArgs := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(childArgs, args[i:]...)
		}
		if a == "--daemon" || strings.HasPrefix(a, "--daemon=") {
			continue
		}
		childArgs = append(childArgs, a)
	}
	return childArgs
}

func startWatchDaemon(cmd *cobra.Command, args []string) error {
	pid, err := watcher.StartDaemon(watchPIDFile, watchLogFile, daemonChildArgs(args))
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Watch daemon started (PID %d)\n", pid)
	fmt.Fprintf(out, "  PID file: %s\n", watchPIDFile)
	fmt.Fprintf(out, "  Log file: %s\n", watchLogFile)
	fmt.Fprintf(out, "\nTo stop: basketminer watch --stop\n")
	return nil
}

func runWatchForeground(cmd *cobra.Command, w *watcher.Watcher, dir string) error {
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s for transaction files (press Ctrl+C to stop)...\n", dir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	fmt.Fprintf(out, "\nReceived signal %v, shutting down...\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}

	fmt.Fprintf(out, "Mined %d files (%d failed)\n", w.Handled(), w.Failures())
	return nil
}
