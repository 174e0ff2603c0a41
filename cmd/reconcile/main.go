// Command reconcile runs one matching pass from the command line: it reads
// a parsed statement and a set of ledger entries from JSON files, proposes
// matches, and prints the result. Nothing is persisted; it exists for
// inspecting what the engine would propose before driving it via the API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/matcher"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/config"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/logging"
)

func main() {
	var (
		statementPath = flag.String("statement", "", "Path to statement JSON file")
		ledgerPath    = flag.String("ledger", "", "Path to ledger entries JSON file")
		configPath    = flag.String("config", "config.yaml", "Path to config file")
		asJSON        = flag.Bool("json", false, "Print the full result as JSON")
		verbose       = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *statementPath == "" || *ledgerPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -statement statement.json -ledger ledger.json")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.LoadFromEnv()
	}
	loggingCfg := cfg.Observability.Logging
	if *verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "reconcile")

	var stmt statement.Statement
	if err := readJSON(*statementPath, &stmt); err != nil {
		logger.Error("failed to read statement", "path", *statementPath, "error", err)
		os.Exit(1)
	}

	var entries []ledger.Entry
	if err := readJSON(*ledgerPath, &entries); err != nil {
		logger.Error("failed to read ledger entries", "path", *ledgerPath, "error", err)
		os.Exit(1)
	}

	engine := matcher.NewEngine(cfg.Matching.ToScoringConfig(), nil, logger)
	result := engine.Run(stmt.Transactions, entries)

	if *asJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}

	printResult(result)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func printResult(result *matcher.Result) {
	for _, m := range result.Matches {
		fmt.Printf("%-12s %s -> %s  score=%.1f", m.Confidence, m.StatementID, m.EntryID, m.Score)
		for _, reason := range m.Reasons {
			fmt.Printf("  (%s)", reason)
		}
		fmt.Println()
	}
	for _, mm := range result.MultiMatches {
		fmt.Printf("%-12s %v -> %v  [%s]\n", mm.Confidence, mm.StatementIDs, mm.EntryIDs, mm.Kind)
	}

	s := result.Summary
	fmt.Printf("\nmatched %d of %d statement lines (%.1f%%), %d ledger entries considered\n",
		s.MatchedStatementLines, s.TotalStatementLines, result.Accuracy, s.TotalLedgerEntries)
}
