package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zen-systems/routesim/pkg/adapter"
	"github.com/zen-systems/routesim/pkg/config"
	"github.com/zen-systems/routesim/pkg/evidence"
	"github.com/zen-systems/routesim/pkg/router"
	"github.com/zen-systems/routesim/pkg/scenario"
)

var (
	simFile   string
	debugFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routesim",
		Short: "Routing decision simulator for multi-agent query dispatch",
		Long: `Routesim simulates how free-text queries are routed to specialized
	downstream agents using pattern matching, heuristic classification,
	and simulated LLM intent inference, and exposes every decision as an
	auditable trace.`,
	}

	rootCmd.PersistentFlags().StringVar(&simFile, "config", "", "path to simulation config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(replayCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func routeCmd() *cobra.Command {
	var methodFlag string
	var previousAgent string
	var sessionID string
	var showTrace bool
	var outDir string
	var redact bool
	var seed int64

	cmd := &cobra.Command{
		Use:   "route [query]",
		Short: "Simulate routing a single query",
		Long: `Runs one query through the routing simulator and prints the decision.

	Use --method to force a strategy (regex, ml, llm) instead of automatic
	selection, --trace to print the audit trace, and --out to write an
	evidence bundle (decision.json, trace.json) to a directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			svc, err := buildService(methodFlag, seed)
			if err != nil {
				return err
			}

			var rctx *router.RequestContext
			if previousAgent != "" || sessionID != "" {
				rctx = &router.RequestContext{
					SessionID:     sessionID,
					PreviousAgent: router.Agent(previousAgent),
				}
			}

			decision, err := svc.Simulate(context.Background(), query, rctx)
			if err != nil {
				return err
			}

			printDecision(decision)

			session := sessionID
			if session == "" {
				session = uuid.NewString()
			}
			trace := router.BuildTrace(decision, session)
			trace.Query = query

			if showTrace {
				fmt.Println()
				printTrace(trace)
			}

			if outDir != "" {
				w, err := evidence.NewWriter(outDir, decision.ID)
				if err != nil {
					return fmt.Errorf("failed to create evidence writer: %w", err)
				}
				if err := w.WriteRun(decision.ID, query, session, decision.Timestamp, redact); err != nil {
					return err
				}
				if err := w.WriteDecision(decision); err != nil {
					return err
				}
				if err := w.WriteTrace(trace); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Evidence: %s\n", w.RunDir())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&methodFlag, "method", "", "force a strategy (regex, ml, llm)")
	cmd.Flags().StringVar(&previousAgent, "previous-agent", "", "agent that handled the previous turn")
	cmd.Flags().StringVar(&sessionID, "session", "", "session identifier for the trace")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the audit trace")
	cmd.Flags().StringVar(&outDir, "out", "", "write an evidence bundle to this directory")
	cmd.Flags().BoolVar(&redact, "redact", false, "record only the query hash in evidence")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses wall clock)")

	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Show the agent rule tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tINTENT\tPATTERNS\tKEYWORDS")

			var names []string
			for name := range cfg.Agents.Agents {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				rule := cfg.Agents.Agents[name]
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					name, rule.Intent, len(rule.Patterns), strings.Join(rule.Keywords, ", "))
			}

			return w.Flush()
		},
	}
}

func replayCmd() *cobra.Command {
	var manifestFile string
	var jsonOut bool
	var seed int64

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a scenario manifest through the simulator",
		Long: `Runs every case of a YAML scenario through a single simulator
	instance and reports per-case outcomes plus aggregate metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestFile == "" {
				return fmt.Errorf("scenario file is required")
			}

			sc, err := scenario.LoadManifest(manifestFile)
			if err != nil {
				return err
			}

			svc, err := buildService("", seed)
			if err != nil {
				return err
			}

			report, err := scenario.Run(context.Background(), sc, svc)
			if err != nil {
				return err
			}

			if jsonOut {
				return printReportJSON(report, svc.Metrics())
			}
			return printReport(report, svc.Metrics())
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "file", "f", "", "scenario manifest path (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the report as JSON")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses wall clock)")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Validate a scenario manifest",
		Long:  "Validates scenario YAML without executing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.LoadManifest(args[0])
			if err != nil {
				return err
			}
			if err := sc.Validate(); err != nil {
				return err
			}
			fmt.Println("Scenario manifest is valid.")
			return nil
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List advisor adapters and their key status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODELS\tSTATUS")

			for _, a := range buildAdapterList(cfg) {
				status := "no key"
				if cfg.HasAdapter(a.Name()) || a.Name() == "mock" {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name(), strings.Join(a.Models(), ", "), status)
			}

			return w.Flush()
		},
	}
}

func loadConfig() (*config.Config, error) {
	if simFile != "" {
		return config.LoadWithSimFile(simFile)
	}
	return config.Load()
}

func buildService(methodOverride string, seed int64) (*router.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if methodOverride != "" {
		cfg.Simulation.PreferredMethod = methodOverride
	}

	opts := []router.Option{
		router.WithDebug(debugFlag),
		router.WithAdapters(createAdapters(cfg)),
	}
	if seed != 0 {
		opts = append(opts, router.WithRand(rand.New(rand.NewSource(seed))))
	}

	return router.NewService(cfg.Simulation, cfg.Agents, opts...)
}

func createAdapters(cfg *config.Config) map[string]adapter.Adapter {
	adapters := make(map[string]adapter.Adapter)
	for _, a := range buildAdapterList(cfg) {
		adapters[a.Name()] = a
	}
	return adapters
}

func buildAdapterList(cfg *config.Config) []adapter.Adapter {
	var list []adapter.Adapter

	if cfg.AnthropicAPIKey != "" {
		if a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey); err == nil {
			list = append(list, a)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		if a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey); err == nil {
			list = append(list, a)
		}
	}
	if cfg.GoogleAPIKey != "" {
		if a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey); err == nil {
			list = append(list, a)
		}
	}
	if cfg.DeepSeekAPIKey != "" {
		if a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey); err == nil {
			list = append(list, a)
		}
	}

	list = append(list, adapter.NewMockAdapter())
	return list
}

func printDecision(d *router.Decision) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Agent:\t%s\n", d.SelectedAgent)
	fmt.Fprintf(w, "Confidence:\t%.2f\n", d.Confidence)
	fmt.Fprintf(w, "Intent:\t%s\n", d.Intent)
	fmt.Fprintf(w, "Method:\t%s\n", d.Method)
	fmt.Fprintf(w, "Latency:\t%.0fms\n", d.LatencyMs)
	fmt.Fprintf(w, "Reasoning:\t%s\n", d.Reasoning)
	w.Flush()
}

func printTrace(t *router.Trace) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tAGENT\tMETHOD\tCONFIDENCE\tLATENCY")
	for _, step := range t.Steps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.0fms\n",
			step.Name, step.Agent, step.Method, step.Confidence, step.LatencyMs)
	}
	w.Flush()
}

func printReport(report *scenario.Report, metrics *router.Metrics) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tAGENT\tMETHOD\tCONFIDENCE\tRESULT")

	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\terror: %v\n", r.Case.Name, r.Err)
			continue
		}
		result := "pass"
		if !r.Passed {
			result = "fail: " + r.Failure
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			r.Case.Name, r.Decision.SelectedAgent, r.Decision.Method, r.Decision.Confidence, result)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Passed:\t%d/%d (accuracy %.0f%%)\n", report.Passed, len(report.Results), report.Accuracy()*100)
	fmt.Fprintf(w, "Errors:\t%d\n", report.Errors)
	fmt.Fprintf(w, "Avg confidence:\t%.2f\n", metrics.AverageConfidence)
	fmt.Fprintf(w, "Avg latency:\t%.0fms\n", metrics.AverageLatency)

	var methods []string
	for m := range metrics.MethodDistribution {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		fmt.Fprintf(w, "Method %s:\t%d\n", m, metrics.MethodDistribution[router.Method(m)])
	}

	return w.Flush()
}

func printReportJSON(report *scenario.Report, metrics *router.Metrics) error {
	type caseResult struct {
		Case     string           `json:"case"`
		Decision *router.Decision `json:"decision,omitempty"`
		Error    string           `json:"error,omitempty"`
		Passed   bool             `json:"passed"`
		Failure  string           `json:"failure,omitempty"`
	}
	out := struct {
		Scenario string          `json:"scenario"`
		Results  []caseResult    `json:"results"`
		Accuracy float64         `json:"accuracy"`
		Metrics  *router.Metrics `json:"metrics"`
	}{
		Scenario: report.Scenario.Name,
		Accuracy: report.Accuracy(),
		Metrics:  metrics,
	}
	for _, r := range report.Results {
		cr := caseResult{Case: r.Case.Name, Decision: r.Decision, Passed: r.Passed, Failure: r.Failure}
		if r.Err != nil {
			cr.Error = r.Err.Error()
		}
		out.Results = append(out.Results, cr)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
