package eventlog

// Matcher is an extra record predicate applied during filtering.
// *rules.Predicate satisfies it.
type Matcher interface {
	Match(LogRecord) bool
}

// Query is the explicit view state for one request: criteria, sort order,
// optional predicate and paging. Limit <= 0 means no limit.
type Query struct {
	Criteria FilterCriteria
	Sort     SortSpec
	Where    Matcher
	Offset   int
	Limit    int
}

// Result is the display view for a Query.
type Result struct {
	Records []LogRecord `json:"records"`
	Matched int         `json:"matched"`
	Summary Summary     `json:"summary"` // over the filtered set
	Overall Summary     `json:"overall"` // over every record
}

// Run executes sort(filter(records)) and computes both aggregates.
func Run(records []LogRecord, q Query) (Result, error) {
	spec := q.Sort
	if spec.Field == "" && spec.Direction == "" {
		spec = DefaultSort
	}
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}

	var where func(LogRecord) bool
	if q.Where != nil {
		where = q.Where.Match
	}
	filtered, err := filterWhere(records, q.Criteria, where)
	if err != nil {
		return Result{}, err
	}
	sorted, err := Sort(filtered, spec)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Records: page(sorted, q.Offset, q.Limit),
		Matched: len(sorted),
		Summary: Aggregate(filtered),
		Overall: Aggregate(records),
	}, nil
}

func page(records []LogRecord, offset, limit int) []LogRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []LogRecord{}
	}
	end := len(records)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return records[offset:end]
}
