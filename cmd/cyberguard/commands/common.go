package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/rules"
	"github.com/cyberguard/cyberguard/internal/source"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
)

// loadConfig loads the configuration selected by --config.
func loadConfig() (*config.GlobalConfig, error) {
	return config.LoadGlobalConfig(config.GetConfigPath())
}

// loadStore builds a Store from the configured source.
// loadStore 从配置的来源构建 Store。
func loadStore(ctx context.Context, cfg *config.GlobalConfig) (*eventlog.Store, error) {
	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}
	store, err := source.LoadStore(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", src.Name(), err)
	}
	logger.Get(ctx).Debugf("[LOG] Loaded %d records from %s", store.Len(), src.Name())
	return store, nil
}

// queryFlags are the view-state flags shared by query and export.
type queryFlags struct {
	search   string
	severity string
	status   string
	sort     string
	dir      string
	where    string
	limit    int
	offset   int
}

func (f *queryFlags) bind(cmd *cobra.Command, paging bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.search, "search", "s", "", "Case-insensitive text search over event, source and details")
	fs.StringVar(&f.severity, "severity", eventlog.Any, "Severity filter: any, critical, high, medium, low")
	fs.StringVar(&f.status, "status", eventlog.Any, "Status filter: any, active, blocked, allowed")
	fs.StringVar(&f.sort, "sort", string(eventlog.DefaultSort.Field), "Sort field: id, timestamp, event, severity, source, details, status")
	fs.StringVar(&f.dir, "dir", string(eventlog.DefaultSort.Direction), "Sort direction: asc or desc")
	fs.StringVarP(&f.where, "where", "w", "", `Extra expression, e.g. 'like("ext*") && Rank >= 3'`)
	if paging {
		fs.IntVarP(&f.limit, "limit", "n", 0, "Maximum records to print (0 = all)")
		fs.IntVar(&f.offset, "offset", 0, "Records to skip")
	}
}

// build turns flags into a Query.
// build 将标志转换为查询。
func (f *queryFlags) build() (eventlog.Query, error) {
	var q eventlog.Query

	sev, err := eventlog.ParseSeverityFilter(f.severity)
	if err != nil {
		return q, err
	}
	st, err := eventlog.ParseStatusFilter(f.status)
	if err != nil {
		return q, err
	}
	q.Criteria = eventlog.FilterCriteria{SearchText: f.search, Severity: sev, Status: st}

	if q.Sort, err = eventlog.ParseSortSpec(f.sort, f.dir); err != nil {
		return q, err
	}
	if f.where != "" {
		p, err := rules.Compile(f.where)
		if err != nil {
			return q, err
		}
		q.Where = p
	}
	q.Limit, q.Offset = f.limit, f.offset
	return q, nil
}
