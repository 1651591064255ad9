package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driftwatch/internal/app"
	"driftwatch/internal/config"
	"driftwatch/internal/watch"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. app.OpScan).
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "driftwatch",
	Short: "Directory snapshot and drift reporting tool",
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan DIRECTORY",
	Short: "Snapshot a directory and report its drift",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp(app.OpScan)
		if err != nil {
			return err
		}
		defer a.Close()

		dir := args[0]
		fmt.Printf("Scanning %s\n", dir)
		result, err := a.Scan(dir)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		fmt.Printf("Captured snapshot %s (%d files)\n", result.Name, result.FileCount)

		fmt.Println("Generating report")
		report, err := a.Report(dir)
		if err != nil {
			return fmt.Errorf("report failed: %w", err)
		}
		// An empty report still goes to --output so a stale file from
		// an earlier run never lingers there.
		if report == "" && output == "" {
			fmt.Println("No drift recorded yet.")
			return nil
		}
		return a.WriteReport(report, output)
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report DIRECTORY",
	Short: "Report drift from stored history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp(app.OpReport)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Report(args[0])
		if err != nil {
			return fmt.Errorf("report failed: %w", err)
		}
		if report == "" && output == "" {
			fmt.Println("No drift recorded yet.")
			return nil
		}
		return a.WriteReport(report, output)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View scan history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(app.OpHistory)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No scans recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-7s  %s  %-8s  %4d files  %s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				op.FileCount,
				duration,
				op.Directory,
			)
		}
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch DIRECTORY",
	Short: "Continuously snapshot a directory as it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		settle, _ := cmd.Flags().GetDuration("settle")

		a, err := newApp(app.OpWatch)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := a.Watch(ctx, args[0], settle, output); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new host ID
		hostID := uuid.New().String()

		// Create config with defaults
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:      %s\n", cfg.HostID)
		fmt.Printf("Base Dir:     %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		switch cfg.Store.Type {
		case "filesystem":
			fmt.Printf("Store:        filesystem (%s)\n", cfg.Store.Path)
		case "s3":
			fmt.Printf("Store:        s3 (%s/%s)\n", cfg.Store.S3Bucket, cfg.Store.S3Prefix)
		default:
			fmt.Printf("Store:        %s\n", cfg.Store.Type)
		}
		fmt.Printf("Database:     %s\n", cfg.Database.Type)
		fmt.Printf("Encryption:   %s\n", cfg.Encryption.Type)
		fmt.Printf("Fingerprint:  %s\n", cfg.Fingerprint.Algorithm)
		return nil
	},
}

var configKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the snapshot encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if err := app.Keygen(cfg); err != nil {
			return err
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeygenCmd)

	// root commands
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("output", "o", "", "Write the report to this path instead of stdout")
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("output", "o", "", "Write the report to this path instead of stdout")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of scans to show")
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("output", "o", "", "Regenerate the report at this path after every change")
	watchCmd.Flags().DurationP("settle", "s", watch.DefaultSettle, "Quiet period before a rescan")
	rootCmd.AddCommand(configCmd)
}
