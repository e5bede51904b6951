package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hirestack/resume-intake/internal/common"
)

// CandidateStore is what the intake paths need from the candidate table:
// the live column set, writes, and a full read for export.
type CandidateStore interface {
	// Columns returns the destination table's column names as a set.
	Columns(ctx context.Context) (map[string]struct{}, error)
	// Insert writes one record. Field keys must be live column names.
	Insert(ctx context.Context, fields map[string]string) error
	// Upsert writes one record, updating the existing row that shares its
	// key column value.
	Upsert(ctx context.Context, fields map[string]string, keyColumn string) error
	// List reads every row, restricted to the requested columns.
	List(ctx context.Context, columns []string) ([]map[string]string, error)
}

// CandidateRepository stores candidate records in a Postgres table whose
// schema is discovered at runtime rather than compiled in.
type CandidateRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

func NewCandidateRepository(pool *pgxpool.Pool, table string, logger *slog.Logger) *CandidateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidateRepository{pool: pool, table: table, logger: logger}
}

// Columns queries information_schema for the destination table's columns.
func (r *CandidateRepository) Columns(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`,
		r.table)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to read table schema", err)
	}
	defer rows.Close()

	cols := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to read table schema", err)
		}
		cols[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to read table schema", err)
	}
	if len(cols) == 0 {
		return nil, common.NewAppError("NOT_FOUND",
			fmt.Sprintf("table %q has no columns or does not exist", r.table), common.ErrNotFound)
	}
	return cols, nil
}

// Insert writes fields as one new row.
func (r *CandidateRepository) Insert(ctx context.Context, fields map[string]string) error {
	if len(fields) == 0 {
		return common.ErrSchemaMismatch
	}
	cols, args := splitFields(fields)
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{r.table}.Sanitize(), joinIdents(cols), placeholders(len(cols)))

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return common.NewAppError("DB_ERROR", "candidate insert failed", err)
	}
	r.logger.Info("candidate inserted", slog.Int("fields", len(fields)))
	return nil
}

// Upsert writes fields, replacing the row whose keyColumn matches. fields
// must contain keyColumn.
func (r *CandidateRepository) Upsert(ctx context.Context, fields map[string]string, keyColumn string) error {
	if len(fields) == 0 {
		return common.ErrSchemaMismatch
	}
	if _, ok := fields[keyColumn]; !ok {
		return common.NewAppError("INVALID_INPUT",
			fmt.Sprintf("upsert requires key column %q", keyColumn), common.ErrInvalidInput)
	}

	cols, args := splitFields(fields)
	var updates []string
	for _, c := range cols {
		if c == keyColumn {
			continue
		}
		ident := pgx.Identifier{c}.Sanitize()
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", ident, ident))
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		pgx.Identifier{r.table}.Sanitize(), joinIdents(cols), placeholders(len(cols)),
		pgx.Identifier{keyColumn}.Sanitize(), strings.Join(updates, ", "))

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return common.NewAppError("DB_ERROR", "candidate upsert failed", err)
	}
	r.logger.Info("candidate upserted", slog.String("key", keyColumn), slog.Int("fields", len(fields)))
	return nil
}

// List reads the requested columns from every row. NULLs come back as empty
// strings.
func (r *CandidateRepository) List(ctx context.Context, columns []string) ([]map[string]string, error) {
	if len(columns) == 0 {
		return nil, common.NewAppError("INVALID_INPUT", "no columns requested", common.ErrInvalidInput)
	}
	sql := fmt.Sprintf("SELECT %s FROM %s", joinIdents(columns), pgx.Identifier{r.table}.Sanitize())
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "candidate list failed", err)
	}
	defer rows.Close()

	var out []map[string]string
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, common.NewAppError("DB_ERROR", "candidate list failed", err)
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			switch v := vals[i].(type) {
			case nil:
				row[col] = ""
			case string:
				row[col] = v
			default:
				row[col] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_ERROR", "candidate list failed", err)
	}
	return out, nil
}

func splitFields(fields map[string]string) ([]string, []any) {
	cols := make([]string, 0, len(fields))
	for c := range fields {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = fields[c]
	}
	return cols, args
}

func joinIdents(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}
