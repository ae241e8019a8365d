package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loadkit/loadstate/internal/cli/output"
	"github.com/loadkit/loadstate/internal/cli/timeutil"
	"github.com/loadkit/loadstate/internal/logger"
	"github.com/loadkit/loadstate/pkg/loadable"
	"github.com/loadkit/loadstate/pkg/loadable/pagination"
	"github.com/loadkit/loadstate/pkg/metrics"

	// Import prometheus metrics to register init() functions
	_ "github.com/loadkit/loadstate/pkg/metrics/prometheus"
)

var (
	fetchAll    bool
	fetchPages  int
	fetchFormat string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch records from the configured source",
	Long: `Fetch one or more pages of records from the configured source and
print the aggregated collection.

The walk is driven through the loadable engine: the first page loads via
a first-appearance action, and each further page through an end-of-page
action, so duplicate records collapse by id exactly as they would inside
an embedding application.

Examples:
  # Fetch the first page
  loadctl fetch

  # Fetch three pages
  loadctl fetch --pages 3

  # Walk every page the source reports
  loadctl fetch --all

  # Emit the collection as JSON
  loadctl fetch --all --output json`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "Follow next-page pointers until the source is exhausted")
	fetchCmd.Flags().IntVar(&fetchPages, "pages", 1, "Number of pages to fetch (ignored with --all)")
	fetchCmd.Flags().StringVarP(&fetchFormat, "output", "o", "table", "Output format: table, json, yaml")
}

// fetchStore drives a ListReducer to completion from the CLI: Reduce
// calls are serialized behind a mutex (the store thread), and every
// observed mutation of the loadable value is forwarded to a channel the
// driver waits on.
type fetchStore struct {
	mu      sync.Mutex
	state   pagination.ListState[record, pagination.OffsetPage]
	reducer *pagination.ListReducer[record, pagination.OffsetPage]
	events  chan loadable.Value[pagination.IdentifiedCollection[record, pagination.OffsetPage]]
}

func newFetchStore(src *httpSource, pageSize int, m loadable.Metrics) *fetchStore {
	s := &fetchStore{
		events: make(chan loadable.Value[pagination.IdentifiedCollection[record, pagination.OffsetPage]], 16),
	}
	s.reducer = pagination.NewList(pagination.ListConfig[record, pagination.OffsetPage]{
		PathID:    "records",
		FirstPage: func() pagination.OffsetPage { return pagination.OffsetPage{Limit: pageSize, Offset: 0} },
		LoadPage:  src.FetchPage,
		Metrics:   m,
		Observer: loadable.ObserverFunc[pagination.IdentifiedCollection[record, pagination.OffsetPage]](
			func(next loadable.Value[pagination.IdentifiedCollection[record, pagination.OffsetPage]]) {
				s.events <- next
			}),
	})
	return s
}

func (s *fetchStore) dispatch(ctx context.Context, a pagination.ListAction[record, pagination.OffsetPage]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reducer.Reduce(ctx, &s.state, a, func(next pagination.ListAction[record, pagination.OffsetPage]) {
		s.dispatch(ctx, next)
	})
}

// awaitSettled blocks until the loadable leaves Loading, returning the
// collection on success.
func (s *fetchStore) awaitSettled(ctx context.Context) (pagination.IdentifiedCollection[record, pagination.OffsetPage], error) {
	var zero pagination.IdentifiedCollection[record, pagination.OffsetPage]
	for {
		select {
		case v := <-s.events:
			if v.HasFailed() {
				return zero, errors.New("load failed; re-run with LOADSTATE_LOGGING_LEVEL=DEBUG for details")
			}
			if v.IsLoaded() {
				c, ok := v.CurrentValue()
				if !ok {
					return zero, errors.New("source returned no collection")
				}
				return c, nil
			}
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

func (s *fetchStore) hasNextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Items.CurrentValue()
	return ok && c.HasNextPage()
}

func runFetch(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(fetchFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go serveMetrics(cfg.Metrics.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := newHTTPSource(cfg.Source.Endpoint, cfg.Source.Timeout)
	store := newFetchStore(src, cfg.Source.PageSize, metrics.NewLoadableMetrics())

	logger.Info("fetching records", logger.Endpoint(cfg.Source.Endpoint), logger.PageSize(cfg.Source.PageSize))

	store.dispatch(ctx, pagination.FirstAppear[record, pagination.OffsetPage]())
	collection, err := store.awaitSettled(ctx)
	if err != nil {
		return err
	}

	pagesWanted := fetchPages
	if fetchAll {
		pagesWanted = cfg.Source.MaxPages
		if pagesWanted == 0 {
			pagesWanted = int(^uint(0) >> 1)
		}
	}

	for fetched := 1; fetched < pagesWanted && store.hasNextPage(); fetched++ {
		store.dispatch(ctx, pagination.ReachedEndOfPage[record, pagination.OffsetPage]())
		collection, err = store.awaitSettled(ctx)
		if err != nil {
			return err
		}
	}

	logger.Info("fetch complete", logger.Records(collection.Len()))
	return printCollection(format, collection)
}

// serveMetrics exposes the Prometheus registry for the lifetime of the
// fetch. Best-effort: a busy port logs a warning rather than failing the
// fetch itself.
func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info("metrics endpoint listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics endpoint stopped", logger.Err(err))
	}
}

func printCollection(format output.Format, c pagination.IdentifiedCollection[record, pagination.OffsetPage]) error {
	p := output.NewPrinter(os.Stdout, format, false)
	values := c.Values()

	if format != output.FormatTable {
		return p.Print(values)
	}

	table := output.NewTableData("ID", "NAME", "UPDATED")
	for _, r := range values {
		updated := "-"
		if r.UpdatedAt != "" {
			updated = timeutil.FormatTime(r.UpdatedAt)
		}
		table.AddRow(r.Id, r.Name, updated)
	}
	if err := p.Print(table); err != nil {
		return err
	}
	p.Printf("\n%d records", len(values))
	if next, ok := c.NextPage(); ok {
		p.Printf(", more available at offset %d", next.Offset)
	}
	p.Println()
	return nil
}
