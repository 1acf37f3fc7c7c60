// Package check provides the readiness-gate commands used by deployment
// pipelines to hold a rollout until its workloads are healthy.
package check

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	runtime "github.com/saadousman/health-checks/pkg/di"
	"github.com/saadousman/health-checks/pkg/io/configmanager"
	"github.com/saadousman/health-checks/pkg/k8s"
	"github.com/saadousman/health-checks/pkg/k8s/readiness"
	"github.com/saadousman/health-checks/pkg/ui/notify"
	"github.com/saadousman/health-checks/pkg/ui/timer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

const timingFlagName = "timing"

const readinessCmdLong = `Wait for a deployment or statefulset to become ready.

The command validates that the namespace and the workload exist, then
polls the cluster until every desired replica is ready. Workloads that
can never become ready (scaled to zero, crash-looping pods, image pull
failures, excessive restarts) fail immediately instead of consuming the
whole timeout.

Exits 0 when the workload is ready, 1 otherwise.

Examples:
  # Wait up to the default 500 seconds for a deployment
  health-checks check_readiness deployment web prod

  # Wait up to 120 seconds for a statefulset
  health-checks check_readiness statefulset db prod 120`

// NewReadinessCmd creates the check_readiness command.
func NewReadinessCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check_readiness <kind> <name> <namespace> [timeoutSeconds]",
		Aliases: []string{"check-readiness"},
		Short:   "Wait for a deployment or statefulset to become ready",
		Long:    readinessCmdLong,
		Args:    cobra.RangeArgs(3, 4),

		SilenceUsage: true,
	}

	cfgManager := configmanager.NewConfigManager(cmd.OutOrStdout())
	bindReadinessFlags(cmd, cfgManager)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runtimeContainer.Invoke(func(injector runtime.Injector) error {
			factory, err := runtime.ResolveClientsetFactory(injector)
			if err != nil {
				return err
			}

			tmr, err := runtime.ResolveTimer(injector)
			if err != nil {
				return err
			}

			deps := ReadinessDeps{Factory: factory, Timer: tmr}

			return HandleReadinessRunE(cmd, args, cfgManager, deps)
		})
	}

	return cmd
}

// ReadinessDeps captures dependencies needed for the readiness command
// logic. Tests inject a fake clientset factory here.
type ReadinessDeps struct {
	Factory k8s.ClientsetFactory
	Timer   timer.Timer
}

// HandleReadinessRunE handles the check_readiness command.
// Exported for testing purposes.
func HandleReadinessRunE(
	cmd *cobra.Command,
	args []string,
	cfgManager *configmanager.ConfigManager,
	deps ReadinessDeps,
) error {
	cfgManager.Writer = cmd.OutOrStdout()

	settings, err := cfgManager.LoadConfigSilent()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	workload, err := parseWorkloadArgs(args, settings)
	if err != nil {
		return err
	}

	clientset, err := deps.Factory(settings.Kubeconfig, settings.Context)
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	monitor := readiness.NewMonitor(clientset, readiness.Options{
		Timeout:     settings.Timeout,
		Interval:    settings.Interval,
		SettleDelay: settings.SettleDelay,
		Writer:      cmd.OutOrStdout(),
		Logger:      debugLogger(settings.Verbose),
	})

	summary, checkErr := monitor.Check(cmd.Context(), workload)

	err = writeResult(cmd, deps, settings.Output, summary, checkErr)
	if err != nil {
		return err
	}

	return checkErr
}

func parseWorkloadArgs(
	args []string,
	settings *configmanager.Settings,
) (k8s.Workload, error) {
	kind, err := k8s.ParseWorkloadKind(args[0])
	if err != nil {
		return k8s.Workload{}, err
	}

	workload := k8s.Workload{Kind: kind, Name: args[1], Namespace: args[2]}

	// The positional timeout wins over config file, environment, and flags.
	if len(args) == 4 {
		seconds, err := strconv.Atoi(args[3])
		if err != nil || seconds <= 0 {
			return k8s.Workload{}, fmt.Errorf(
				"%w: %q (expected a positive whole number of seconds)",
				ErrInvalidTimeout, args[3])
		}

		settings.Timeout = time.Duration(seconds) * time.Second
	}

	return workload, nil
}

// checkReport is the machine-readable result emitted for json and yaml
// output.
type checkReport struct {
	Status   string                  `json:"status"`
	Workload k8s.Workload            `json:"workload"`
	Replicas readiness.ReplicaStatus `json:"replicas"`
	Pods     readiness.PodHealth     `json:"pods"`
	Ticks    int                     `json:"ticks"`
	Elapsed  string                  `json:"elapsed"`
}

func writeResult(
	cmd *cobra.Command,
	deps ReadinessDeps,
	output string,
	summary readiness.Summary,
	checkErr error,
) error {
	writer := cmd.OutOrStdout()

	if output == configmanager.OutputText {
		if checkErr == nil {
			notifyReady(cmd, deps, summary)
		}

		return nil
	}

	report := checkReport{
		Status:   "ready",
		Workload: summary.Workload,
		Replicas: summary.Replicas,
		Pods:     summary.Pods,
		Ticks:    summary.Ticks,
		Elapsed:  summary.Elapsed.Round(time.Millisecond).String(),
	}
	if checkErr != nil {
		report.Status = "failed"
	}

	var (
		encoded []byte
		err     error
	)

	switch output {
	case configmanager.OutputJSON:
		encoded, err = json.MarshalIndent(report, "", "  ")
	case configmanager.OutputYAML:
		encoded, err = yaml.Marshal(report)
	}

	if err != nil {
		return fmt.Errorf("encode %s report: %w", output, err)
	}

	_, err = fmt.Fprintln(writer, string(encoded))
	if err != nil {
		return fmt.Errorf("write %s report: %w", output, err)
	}

	return nil
}

func notifyReady(cmd *cobra.Command, deps ReadinessDeps, summary readiness.Summary) {
	writer := cmd.OutOrStdout()
	content := fmt.Sprintf("%s is ready (%d/%d replicas)",
		summary.Workload, summary.Replicas.Ready, summary.Replicas.Desired)

	showTiming, _ := cmd.Flags().GetBool(timingFlagName)
	if showTiming && deps.Timer != nil {
		notify.SuccessWithTimerf(writer, deps.Timer, "%s", content)

		return
	}

	notify.Successf(writer, "%s", content)
}

func bindReadinessFlags(cmd *cobra.Command, cfgManager *configmanager.ConfigManager) {
	flags := cmd.Flags()
	flags.String("kubeconfig", "",
		"Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	flags.String("context", "",
		"Kubeconfig context to use (defaults to the current context)")
	flags.Duration("interval", readiness.DefaultInterval,
		"Delay between poll attempts")
	flags.Duration("settle", readiness.DefaultSettleDelay,
		"Delay before the first poll attempt")
	flags.StringP("output", "o", configmanager.OutputText,
		"Result format: text, json, or yaml")
	flags.BoolP("verbose", "v", false,
		"Enable structured debug logging")

	_ = cfgManager.BindFlags(flags)
}

//nolint:gochecknoglobals
var debugLogOnce sync.Once

// debugLogger returns the shared logger configured for debug output, or
// nil when verbose logging is off.
func debugLogger(verbose bool) logrus.FieldLogger {
	if !verbose {
		return nil
	}

	logger := logrus.StandardLogger()
	debugLogOnce.Do(func() {
		logger.SetLevel(logrus.DebugLevel)
	})

	return logger
}
