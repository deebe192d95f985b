// Command tracking-refresh refreshes tracking data for a list of shipments
// through the sharded dispatcher. It is meant for operators and timers; the
// server never polls providers on its own.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/app"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/config"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/queue"
	"github.com/MishraAmit1/freightsynq-sub002/pkg/logger"
)

func main() {
	var (
		shipments string
		file      string
		kind      string
		workers   int
		setLimit  int64
		usage     bool
	)
	flag.StringVar(&shipments, "shipments", "", "comma-separated shipment ids")
	flag.StringVar(&file, "file", "", "file with one shipment id per line (- for stdin)")
	flag.StringVar(&kind, "kind", string(ports.RefreshCrossings), "refresh kind: crossings or pings")
	flag.IntVar(&workers, "workers", 0, "dispatcher workers (0 = TRACKING_BATCH_WORKERS)")
	flag.Int64Var(&setLimit, "set-limit", -1, "overwrite this month's api call limit and exit")
	flag.BoolVar(&usage, "usage", false, "print this month's usage and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options{
		shipments: shipments,
		file:      file,
		kind:      ports.RefreshKind(kind),
		workers:   workers,
		setLimit:  setLimit,
		usage:     usage,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	shipments string
	file      string
	kind      ports.RefreshKind
	workers   int
	setLimit  int64
	usage     bool
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Output:  os.Stderr,
		Service: "tracking-refresh",
		Env:     cfg.Env,
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	switch {
	case opts.setLimit >= 0:
		period := a.Ledger.Period()
		if err := a.Limits.SetLimit(ctx, period, opts.setLimit, time.Now()); err != nil {
			return err
		}
		log.Info().Str("period", period).Int64("limit", opts.setLimit).Msg("monthly limit updated")
		return printUsage(ctx, a)
	case opts.usage:
		return printUsage(ctx, a)
	}

	if opts.kind != ports.RefreshCrossings && opts.kind != ports.RefreshPings {
		return fmt.Errorf("unknown -kind %q", opts.kind)
	}
	ids, err := shipmentIDs(opts.shipments, opts.file)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no shipments given, use -shipments or -file")
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Tracking.BatchWorkers
	}
	d := queue.NewDispatcher(workers, a.Service, logger.Component("dispatcher"))
	d.Start(ctx)

	queued := 0
	for _, id := range ids {
		if d.Enqueue(ports.RefreshJob{ShipmentID: id, Kind: opts.kind}) {
			queued++
		}
	}
	d.Close()
	d.Wait()

	log.Info().Int("queued", queued).Int("skipped", len(ids)-queued).Str("kind", string(opts.kind)).Msg("refresh finished")
	return printUsage(ctx, a)
}

func printUsage(ctx context.Context, a *app.App) error {
	u, err := a.Service.Usage(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(u)
}

// shipmentIDs merges the flag list and the file contents, dropping blanks
// and duplicates while keeping the first-seen order.
func shipmentIDs(list, file string) ([]string, error) {
	var raw []string
	if list != "" {
		raw = append(raw, strings.Split(list, ",")...)
	}
	if file != "" {
		var r io.Reader = os.Stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			raw = append(raw, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
	}

	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
