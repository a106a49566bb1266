package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/baseco/devstack/internal/config"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs <role>",
	Short: "Print a dev server's log file",
	Long: `Print the captured output of one dev server (backend or frontend).

Each server's output is piped through tee into a per-role log file under the
configured log directory, so logs survive session restarts within a run and
are readable without attaching to tmux.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	role, ok := cfg.Role(args[0])
	if !ok {
		return fmt.Errorf("unknown role %q (expected %s or %s)", args[0], config.RoleBackend, config.RoleFrontend)
	}

	logPath := filepath.Join(cfg.Settings.LogDir, role.LogFileName())
	if _, err := os.Stat(logPath); err != nil {
		return fmt.Errorf("no log file for %s yet (start the environment first): %w", role.Name, err)
	}

	if err := printTail(cmd.OutOrStdout(), logPath, logsLines); err != nil {
		return err
	}
	if !logsFollow {
		return nil
	}
	return followFile(cmd, logPath)
}

// printTail writes the last n lines of the file, or the whole file when
// n <= 0.
func printTail(w io.Writer, path string, n int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if n <= 0 {
		_, err = w.Write(data)
		return err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// followFile polls the log file for growth, like tail -f. The file is
// reopened when it shrinks, which happens when a restart truncates it.
func followFile(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() < offset {
			// Truncated by a restart; start over from the top.
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return err
			}
			offset = 0
		}
		n, err := io.Copy(cmd.OutOrStdout(), f)
		if err != nil {
			return err
		}
		offset += n
	}
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Keep the log open and print new output as it arrives")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 40, "Number of trailing lines to print first (0 for the whole file)")
}
