// Package cmd assembles the health-checks command tree.
package cmd

import (
	"fmt"

	"github.com/saadousman/health-checks/cmd/check"
	runtime "github.com/saadousman/health-checks/pkg/di"
	"github.com/spf13/cobra"
)

// TimingFlagName is the persistent flag that enables per-command timing
// output on success messages.
const TimingFlagName = "timing"

// NewRootCmd creates and returns the root command with version info and
// subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := runtime.NewRuntime()

	cmd := &cobra.Command{
		Use:   "health-checks",
		Short: "health-checks gates deployment pipelines on Kubernetes workload readiness",
		Long: "health-checks gates deployment pipelines on Kubernetes workload readiness. " +
			"It polls deployments and statefulsets until they are fully ready, and fails " +
			"fast on workloads that can never become ready.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().Bool(
		TimingFlagName,
		false,
		"Show per-activity timing output",
	)

	cmd.AddCommand(check.NewReadinessCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
