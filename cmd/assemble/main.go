// Command assemble turns one completed pipeline job result into the canonical
// analysis ledger, either from a local result.json or fetched once from the
// orchestrator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"trackshift-engine/internal/engine"
	"trackshift-engine/internal/jobresult"
	"trackshift-engine/internal/shared/config"
)

func main() {
	input := flag.String("input", "", "path to a job result.json")
	jobID := flag.String("job", "", "job id to fetch from the orchestrator")
	verbose := flag.Bool("verbose", false, "print degraded-field trace entries to stderr")
	flag.Parse()

	cfg := config.Load()

	doc, err := loadDocument(cfg, *input, *jobID)
	if err != nil {
		log.Fatalf("load job result: %v", err)
	}

	rules, err := engine.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatalf("load rules: %v", err)
	}
	if cfg.MaskScoreGate > 0 {
		rules.MaskScoreGate = cfg.MaskScoreGate
	}

	eng := engine.New(rules, engine.ArtifactResolver{APIBase: cfg.ArtifactAPIBase})
	result, trace, err := eng.Assemble(doc)
	if err != nil {
		log.Fatalf("assemble: %v", err)
	}

	if *verbose {
		for _, entry := range trace.Entries() {
			fmt.Fprintf(os.Stderr, "degraded: %s %s: %s\n", entry.Component, entry.Field, entry.Reason)
		}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

func loadDocument(cfg config.Config, input, jobID string) (*jobresult.JobResult, error) {
	switch {
	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return jobresult.Decode(data)
	case jobID != "":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return jobresult.NewClient(cfg.OrchestratorBase).Fetch(ctx, jobID)
	default:
		return nil, fmt.Errorf("provide -input <file> or -job <id>")
	}
}
