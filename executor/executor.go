// Package executor runs catalog statements against the dataset and memoizes
// the materialized results for the lifetime of the process.
package executor

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Opener returns a fresh connection for one execution. The executor closes it
// before Execute returns.
type Opener func(ctx context.Context) (*gorm.DB, error)

// ExecutionError wraps every failure of a statement: dataset unreachable,
// malformed SQL or a broken row scan.
type ExecutionError struct {
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute query: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Executor caches results by statement text. The cache never evicts; use
// Invalidate to drop it.
type Executor struct {
	open  Opener
	mu    sync.Mutex
	cache map[string]*models.QueryResult
	stats Stats
	gen   uint64
	group singleflight.Group
}

func New(open Opener) *Executor {
	return &Executor{
		open:  open,
		cache: make(map[string]*models.QueryResult),
	}
}

func getMD5String(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Execute returns the cached result for statement or runs it. Returned results
// are shared between callers and must not be modified. Concurrent misses for
// the same statement share one execution, which is not cancelled when one of
// the waiting callers gives up.
func (e *Executor) Execute(ctx context.Context, statement string) (*models.QueryResult, error) {
	key := getMD5String(statement)

	e.mu.Lock()
	if res, ok := e.cache[key]; ok {
		e.stats.Hits++
		e.mu.Unlock()
		log.Debug().Str("key", key).Msg("query cache hit")
		return res, nil
	}
	gen := e.gen
	e.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(fmt.Sprintf("%s/%d", key, gen), func() (interface{}, error) {
		e.mu.Lock()
		if res, ok := e.cache[key]; ok && e.gen == gen {
			e.mu.Unlock()
			return res, nil
		}
		e.stats.Misses++
		e.mu.Unlock()

		res, err := e.run(shared, statement)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		// an Invalidate during the run wins
		if e.gen == gen {
			e.cache[key] = res
		}
		e.mu.Unlock()
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, &ExecutionError{Statement: statement, Err: ctx.Err()}
	case r := <-ch:
		if r.Err != nil {
			log.Error().Err(r.Err).Str("key", key).Msg("query failed")
			return nil, r.Err
		}
		return r.Val.(*models.QueryResult), nil
	}
}

func (e *Executor) run(ctx context.Context, statement string) (res *models.QueryResult, err error) {
	db, err := e.open(ctx)
	if err != nil {
		return nil, &ExecutionError{Statement: statement, Err: fmt.Errorf("open dataset: %w", err)}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, &ExecutionError{Statement: statement, Err: err}
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close dataset connection")
		}
	}()

	rows, err := db.WithContext(ctx).Raw(statement).Rows()
	if err != nil {
		return nil, &ExecutionError{Statement: statement, Err: err}
	}
	defer rows.Close()

	res, err = materialize(rows)
	if err != nil {
		return nil, &ExecutionError{Statement: statement, Err: err}
	}
	log.Info().Int("rows", res.Len()).Int("columns", len(res.Columns)).Msg("query executed")
	return res, nil
}

func materialize(rows *sql.Rows) (*models.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &models.QueryResult{Columns: columns, Rows: []map[string]interface{}{}}

	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res, rows.Err()
}

// Invalidate drops every cached result. Executions already running when it is
// called still answer their callers but are not cached.
func (e *Executor) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.cache = make(map[string]*models.QueryResult)
}

func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Entries = len(e.cache)
	return s
}
