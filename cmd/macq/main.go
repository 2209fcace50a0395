// Command macq is an interactive workbench for the macq quantum circuit
// simulator: a qlang program editor with live state, measurement and
// sampling views.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sq756/macq"
)

type config struct {
	numQubits  int
	seed       int64
	shots      int
	noiseLevel float64
	program    string
	runOnce    bool
	logPath    string
}

func main() {
	var cfg config
	var programPath string
	flag.IntVar(&cfg.numQubits, "qubits", 4, "minimum qubit count (grows to fit the program)")
	flag.Int64Var(&cfg.seed, "seed", 0, "measurement/noise seed, 0 for nondeterministic")
	flag.IntVar(&cfg.shots, "shots", 1000, "shots per sampling run")
	flag.Float64Var(&cfg.noiseLevel, "noise", 0, "per-gate noise level in [0,1]")
	flag.StringVar(&programPath, "file", "", "qlang program to load")
	flag.BoolVar(&cfg.runOnce, "run", false, "execute the program once and print a summary instead of starting the TUI")
	flag.StringVar(&cfg.logPath, "log", "", "append structured run logs to this file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "macq"})
	if cfg.logPath != "" {
		f, err := os.OpenFile(cfg.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "macq"})
	}

	if programPath != "" {
		data, err := os.ReadFile(programPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read program: %v\n", err)
			os.Exit(1)
		}
		cfg.program = string(data)
	}

	if cfg.runOnce {
		if err := runOnce(cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(initialModel(cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}

// runOnce executes the loaded program headless: one run, plus a sampling
// pass when the program measures anything.
func runOnce(cfg config, logger *log.Logger) error {
	circuit := macq.NewCircuit(cfg.numQubits)
	if err := circuit.ParseQLang(cfg.program); err != nil {
		return err
	}
	res, err := circuit.Execute(macq.ExecOptions{NoiseLevel: cfg.noiseLevel, Seed: cfg.seed})
	if err != nil {
		return err
	}
	logger.Info("run complete", "run_id", res.RunID, "qubits", res.State.NumQubits(), "outcomes", res.Outcomes)

	var freqs map[string]float64
	if len(res.MeasuredBits) > 0 {
		counts, err := circuit.Sample(cfg.shots, macq.ExecOptions{NoiseLevel: cfg.noiseLevel, Seed: cfg.seed})
		if err != nil {
			return err
		}
		freqs = macq.Frequencies(counts)
		logger.Info("sample complete", "shots", cfg.shots, "distinct", len(counts))
	}

	fmt.Print(quickSummary(res, freqs))
	return nil
}
