package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"waste-sim-service/internal/app"
	"waste-sim-service/internal/config"
	"waste-sim-service/internal/domain"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	_ = godotenv.Load()

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("simctl %s: %v", cmd, err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: simctl <command> [flags]

commands:
  run       run the simulation offline and print the final state
  validate  check a configuration file`)
}

type runOutput struct {
	Snapshot *domain.Snapshot `json:"snapshot"`
	Readings []domain.Reading `json:"readings"`
	Skipped  int              `json:"skipped"`
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to configuration file (defaults and env only when empty)")
	ticks := fs.Int("ticks", 24, "Number of ticks to run")
	asJSON := fs.Bool("json", false, "Print snapshot and readings as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ticks < 1 {
		return fmt.Errorf("ticks must be positive: %w", domain.ErrInvalidCount)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	// Offline runs never publish.
	cfg.Publisher.Kind = config.PublisherNone

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := app.Build(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer eng.Close()

	skipped := 0
	for i := 0; i < *ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := eng.Tick(ctx); err != nil {
			skipped++
		}
	}

	snap := eng.Snapshot()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runOutput{
			Snapshot: snap,
			Readings: eng.Simulation().AllReadings(),
			Skipped:  skipped,
		})
	}
	return printSummary(snap, skipped)
}

func printSummary(snap *domain.Snapshot, skipped int) error {
	fmt.Printf("seed=%d tick=%d sim_time=%s skipped=%d\n", snap.Seed, snap.Tick, snap.SimTime.Format("2006-01-02T15:04Z07:00"), skipped)
	m := snap.Metrics
	fmt.Printf("bins=%d critical=%d warning=%d good=%d avg_fill=%.1f%% efficiency=%.1f%% collections=%d\n\n",
		m.TotalBins, m.CriticalBins, m.WarningBins, m.GoodBins, m.AvgFillPercent, m.CollectionEfficiency, m.TotalCollections)

	ids := make([]string, 0, len(snap.Bins))
	for id := range snap.Bins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BIN\tAREA\tFILL\tSTATUS\tWASTE")
	for _, id := range ids {
		b := snap.Bins[id]
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\n", b.BinID, b.Area, b.FillPercent, b.Status, b.WasteType)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Println()
	truckIDs := make([]string, 0, len(snap.Trucks))
	for id := range snap.Trucks {
		truckIDs = append(truckIDs, id)
	}
	sort.Strings(truckIDs)

	fmt.Fprintln(tw, "TRUCK\tSTATUS\tSTOPS LEFT\tCOLLECTIONS")
	for _, id := range truckIDs {
		t := snap.Trucks[id]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", t.TruckID, t.Status, len(t.Route), t.Collections)
	}
	return tw.Flush()
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	fmt.Printf("config %s looks good (seed=%d bins=%d trucks=%d)\n", *cfgPath, p.Seed, p.BinCount, p.EffectiveTruckCount())
	return nil
}
