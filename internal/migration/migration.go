// Package migration applies the embedded SQL migrations and reports row
// counts of the main tables before and after each one.
package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var embedded embed.FS

// TrackedTables are counted around every migration.
var TrackedTables = []string{"profiles", "assessments", "questions", "answers", "partner_invites", "articles", "faqs"}

type Migration struct {
	Version string
	Name    string
	SQL     string
}

// SchemaMigration records an applied migration.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

type State struct {
	Migration
	AppliedAt *time.Time
}

// Result describes one applied migration. A count of -1 means the table did
// not exist at that point.
type Result struct {
	Migration
	Before   map[string]int64
	After    map[string]int64
	Duration time.Duration
}

type Runner struct {
	db         *gorm.DB
	migrations []Migration
	tables     []string
	now        func() time.Time
}

// Embedded returns the migrations compiled into the binary.
func Embedded() ([]Migration, error) {
	return Load(embedded, "sql")
}

// Load reads NNNN_name.sql files from dir, ordered by version.
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var out []Migration
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".sql")
		version, name, ok := strings.Cut(base, "_")
		if !ok || version == "" || name == "" {
			return nil, fmt.Errorf("migration %q: expected NNNN_name.sql", e.Name())
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %s used by both %s and %s", version, prev, e.Name())
		}
		seen[version] = e.Name()

		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func NewRunner(db *gorm.DB, migrations []Migration, tables []string) *Runner {
	return &Runner{
		db:         db,
		migrations: migrations,
		tables:     tables,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Status lists every known migration with its applied time, if any.
func (r *Runner) Status(ctx context.Context) ([]State, error) {
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	states := make([]State, 0, len(r.migrations))
	for _, m := range r.migrations {
		st := State{Migration: m}
		if rec, ok := applied[m.Version]; ok {
			at := rec.AppliedAt
			st.AppliedAt = &at
		}
		states = append(states, st)
	}
	return states, nil
}

// Up applies pending migrations in order, each in its own transaction, and
// stops at the first failure. report, if set, is called after each one.
func (r *Runner) Up(ctx context.Context, report func(Result)) ([]Result, error) {
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, m := range r.migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}

		before, err := r.Count(ctx)
		if err != nil {
			return results, err
		}
		start := time.Now()
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := execSQL(tx, m.SQL); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: r.now()}).Error
		})
		if err != nil {
			log.Error().Err(err).Str("version", m.Version).Msg("Migration failed, rolled back")
			return results, fmt.Errorf("migration %s_%s: %w", m.Version, m.Name, err)
		}
		after, err := r.Count(ctx)
		if err != nil {
			return results, err
		}

		res := Result{Migration: m, Before: before, After: after, Duration: time.Since(start)}
		results = append(results, res)
		log.Info().Str("version", m.Version).Str("name", m.Name).Dur("took", res.Duration).Msg("Migration applied")
		if report != nil {
			report(res)
		}
	}
	return results, nil
}

// Exec runs a raw SQL body in one transaction.
func (r *Runner) Exec(ctx context.Context, sql string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return execSQL(tx, sql)
	})
}

// Count returns the row count of every tracked table.
func (r *Runner) Count(ctx context.Context) (map[string]int64, error) {
	db := r.db.WithContext(ctx)
	counts := make(map[string]int64, len(r.tables))
	for _, table := range r.tables {
		if !db.Migrator().HasTable(table) {
			counts[table] = -1
			continue
		}
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (r *Runner) applied(ctx context.Context) (map[string]SchemaMigration, error) {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("prepare schema_migrations: %w", err)
	}
	var rows []SchemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}
	out := make(map[string]SchemaMigration, len(rows))
	for _, row := range rows {
		out[row.Version] = row
	}
	return out, nil
}

var errEmptyMigration = errors.New("migration body is empty")

func execSQL(tx *gorm.DB, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return errEmptyMigration
	}
	return tx.Exec(sql).Error
}
