package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/espeasy-tools/espcfg/internal/device"
	"github.com/espeasy-tools/espcfg/internal/discovery"
	"github.com/espeasy-tools/espcfg/internal/engine"
	"github.com/espeasy-tools/espcfg/internal/island"
	"github.com/espeasy-tools/espcfg/internal/logging"
	"github.com/espeasy-tools/espcfg/internal/plan"
	"github.com/espeasy-tools/espcfg/internal/registry"
	"github.com/espeasy-tools/espcfg/internal/table"
	"github.com/espeasy-tools/espcfg/internal/ui"
)

// Command flags
var (
	flagQuiet       bool
	flagVerbose     bool
	flagDryRun      bool
	flagFailFast    bool
	flagPrecheck    bool
	flagHost        string
	flagConcurrency int
	flagPort        int

	discoverTimeout int
	discoverMDNS    bool
)

func init() {
	applyCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output (errors are always reported)")
	applyCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Emit per-operation trace detail")
	applyCmd.Flags().BoolVarP(&flagDryRun, "dryrun", "d", false, "Make no changes, log what would be applied")
	applyCmd.Flags().BoolVarP(&flagFailFast, "failfast", "f", false, "Abort the whole run on first failure instead of moving to the next unit")
	applyCmd.Flags().BoolVarP(&flagPrecheck, "precheck", "p", false, "Probe all referenced units before applying anything")
	applyCmd.Flags().StringVar(&flagHost, "host", "", "Process only the given unit")
	applyCmd.Flags().IntVar(&flagConcurrency, "concurrency", engine.DefaultConcurrency, "Number of units updated in parallel")
	applyCmd.Flags().IntVar(&flagPort, "port", device.DefaultPort, "Device HTTP port")

	discoverCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	discoverCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Emit per-probe detail")
	discoverCmd.Flags().IntVarP(&discoverTimeout, "timeout", "t", 1, "Per-probe timeout in seconds")
	discoverCmd.Flags().BoolVar(&discoverMDNS, "mdns", false, "Also browse for units via mDNS")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(discoverCmd)
}

// applyCmd is the table-to-update pipeline
var applyCmd = &cobra.Command{
	Use:   "apply <table>",
	Short: "Apply a configuration table to the fleet",
	Long: `Apply the configuration described by a table to its units.

The table may be a CSV file, an HTML document containing a <table>, an
XLSX workbook, or an http(s) URL serving an HTML table. The table is
split into islands of related cells; each island names a group of
units, a set of setting keys, and the values to apply. Islands are
processed left to right, top to bottom, so a later island's value for
the same unit and key wins.

Every attempted change is recorded in an append-only log file under
./log/. Exit code 0 means full success, 1 means all units were
attempted but some failed, 2 means the run aborted early.`,
	Example: `  # Preview what a table would change
  espcfg apply fleet.csv --dryrun

  # Verify reachability first and stop at the first problem
  espcfg apply fleet.html --precheck --failfast

  # Update a single unit from a shared sheet
  espcfg apply http://wiki.local/fleet --host 192.168.1.40`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	source := args[0]

	log, logPath, err := logging.New(logging.Options{
		Quiet:   flagQuiet,
		Verbose: flagVerbose,
		Name:    "apply",
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Debug("logging to file", zap.String("path", logPath))

	reg, err := registry.Load()
	if err != nil {
		log.Warn("unit registry unavailable, names will not resolve", zap.Error(err))
		reg = registry.New()
	}

	grid, err := table.Load(source)
	if err != nil {
		// an unparseable source is fatal before any island detection
		return &exitError{code: 2, err: err}
	}
	log.Info("loaded table",
		zap.String("source", source),
		zap.Int("rows", grid.Rows()),
		zap.Int("cols", grid.Cols()),
		zap.Int("cells", grid.Len()),
	)

	islands := island.Detect(grid)
	log.Info("detected islands", zap.Int("count", len(islands)))

	perIsland := make([][]plan.Operation, 0, len(islands))
	for _, is := range islands {
		ops, err := island.Parse(is)
		if err != nil {
			if flagFailFast {
				return &exitError{code: 2, err: err}
			}
			log.Error("skipping island", zap.Error(err))
			continue
		}
		perIsland = append(perIsland, ops)
	}

	p := plan.Build(perIsland)
	log.Info("plan built", zap.Int("operations", p.Len()), zap.Int("units", len(p.Units())))

	client := device.NewClient()
	client.Port = flagPort

	eng := engine.New(deviceClient{client}, log, engine.Options{
		DryRun:      flagDryRun,
		FailFast:    flagFailFast,
		Precheck:    flagPrecheck,
		Host:        flagHost,
		Concurrency: flagConcurrency,
		Resolve:     reg.Resolve,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := eng.Run(ctx, p)

	// the summary is always printed, quiet or not
	fmt.Print(ui.RenderReport(report, ui.IsTerminal()))

	if code := report.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// deviceClient adapts the concrete HTTP client to the engine's
// collaborator interface.
type deviceClient struct {
	c *device.Client
}

func (d deviceClient) Connect(ctx context.Context, unit string) (engine.Session, error) {
	sess, err := d.c.Connect(ctx, unit)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// discoverCmd scans for units and records them in the registry
var discoverCmd = &cobra.Command{
	Use:   "discover <iprange>",
	Short: "Discover ESPEasy units on a subnet",
	Long: `Scan an IPv4 /24 network for ESPEasy units.

Every address of the /24 containing the given IP is probed for the
ESPEasy status endpoint; peers that units report about each other are
probed as well. Discovered units are recorded in the unit name
registry so configuration tables can refer to them by name.`,
	Example: `  # Scan the whole 192.168.1.0/24 network
  espcfg discover 192.168.1.1

  # Slower network: give each probe three seconds
  espcfg discover 10.0.0.1 --timeout 3

  # Include an mDNS browse
  espcfg discover 192.168.1.1 --mdns`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	log, _, err := logging.New(logging.Options{
		Quiet:   flagQuiet,
		Verbose: flagVerbose,
		Name:    "discover",
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prober := discovery.NewProber(log)
	prober.Timeout = time.Duration(discoverTimeout) * time.Second

	units, err := prober.Scan(ctx, args[0])
	if err != nil {
		return err
	}

	if discoverMDNS {
		scanner := discovery.NewMDNSScanner()
		extra, err := scanner.Scan(ctx)
		if err != nil {
			log.Warn("mDNS browse failed", zap.Error(err))
		} else {
			units = mergeUnits(units, extra)
		}
	}

	if len(units) == 0 {
		fmt.Println("No units found.")
		return nil
	}

	reg, err := registry.Load()
	if err != nil {
		log.Warn("unit registry unavailable, results will not be saved", zap.Error(err))
		reg = nil
	}

	fmt.Printf("Found %d unit(s):\n\n", len(units))
	for _, u := range units {
		fmt.Printf("  %-24s %-16s %s\n", u.Name, u.IP, u.Firmware)
		if reg != nil {
			reg.Record(u.Name, u.Address(), u.Firmware)
		}
	}

	if reg != nil {
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
	}
	return nil
}

// mergeUnits combines probe and mDNS results, preferring probe entries
// which carry firmware detail.
func mergeUnits(primary, extra []*discovery.Unit) []*discovery.Unit {
	seen := make(map[string]bool, len(primary))
	for _, u := range primary {
		seen[u.IP] = true
	}
	for _, u := range extra {
		if !seen[u.IP] {
			seen[u.IP] = true
			primary = append(primary, u)
		}
	}
	return primary
}
