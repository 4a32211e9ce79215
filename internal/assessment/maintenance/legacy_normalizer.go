// Package maintenance содержит фоновые задачи обслуживания данных,
// запускаемые периодически по cron-расписанию.
//
// Задачи:
//   - LegacyNormalizer - перевод сохраненных rich-text полей в каноничный HTML
//
// Старые записи могли сохраняться простым текстом, JSON-деревом или HTML с лишней
// разметкой. Такие значения читаются корректно, но задача переписывает их,
// чтобы в БД оставался только каноничный вид.
package maintenance

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
)

// RewrittenFieldsTotal считает переписанные поля по таблицам.
var RewrittenFieldsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "assessment",
	Subsystem: "maintenance",
	Name:      "rewritten_fields_total",
	Help:      "Stored rich text fields rewritten to canonical HTML",
}, []string{"table"})

const batchSize = 100

// richTable описывает таблицу с rich-text колонками.
type richTable struct {
	name    string
	columns []string
}

var richTables = []richTable{
	{name: "questions", columns: []string{"title", "description", "explanation", "constraints"}},
	{name: "question_options", columns: []string{"content"}},
	{name: "question_examples", columns: []string{"input", "output"}},
}

type LegacyNormalizer struct {
	db      *gorm.DB
	workers int
}

func NewLegacyNormalizer(db *gorm.DB, workers int) *LegacyNormalizer {
	if workers <= 0 {
		workers = 1
	}
	return &LegacyNormalizer{db: db, workers: workers}
}

// NormalizeQuestions - задача cron: проходит все таблицы с rich-text полями.
func (ln *LegacyNormalizer) NormalizeQuestions() {
	slog.Info("Start legacy rich text normalization")
	total, err := ln.Run(context.Background())
	if err != nil {
		slog.Error("Legacy rich text normalization", "err", err)
		return
	}
	slog.Info("Finish legacy rich text normalization", "rewritten", total)
}

// Run переписывает неканоничные значения и возвращает число измененных полей.
func (ln *LegacyNormalizer) Run(ctx context.Context) (int64, error) {
	var total int64
	for _, table := range richTables {
		n, err := ln.normalizeTable(ctx, table)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (ln *LegacyNormalizer) normalizeTable(ctx context.Context, table richTable) (int64, error) {
	var rewritten atomic.Int64
	var lastID uuid.UUID

	for {
		rows, err := ln.fetchBatch(ctx, table, lastID)
		if err != nil {
			return rewritten.Load(), err
		}
		if len(rows) == 0 {
			return rewritten.Load(), nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(ln.workers)
		for _, row := range rows {
			g.Go(func() error {
				n, err := ln.normalizeRow(gctx, table, row)
				rewritten.Add(n)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return rewritten.Load(), err
		}

		if len(rows) < batchSize {
			return rewritten.Load(), nil
		}
		lastID = rows[len(rows)-1].id
	}
}

type rawRow struct {
	id     uuid.UUID
	values map[string]*string
}

// fetchBatch читает сырые строки колонок, минуя разбор в rttypes.Document.
func (ln *LegacyNormalizer) fetchBatch(ctx context.Context, table richTable, after uuid.UUID) ([]rawRow, error) {
	query := ln.db.WithContext(ctx).
		Table(table.name).
		Select(append([]string{"id"}, table.columns...)).
		Order("id").
		Limit(batchSize)
	if !after.IsNil() {
		query = query.Where("id > ?", after)
	}

	var maps []map[string]any
	if err := query.Find(&maps).Error; err != nil {
		return nil, err
	}

	rows := make([]rawRow, 0, len(maps))
	for _, m := range maps {
		id, err := uuid.FromString(toString(m["id"]))
		if err != nil {
			slog.Warn("Skip row with bad id", "table", table.name, "id", m["id"])
			continue
		}
		row := rawRow{id: id, values: make(map[string]*string, len(table.columns))}
		for _, col := range table.columns {
			if m[col] == nil {
				row.values[col] = nil
				continue
			}
			s := toString(m[col])
			row.values[col] = &s
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (ln *LegacyNormalizer) normalizeRow(ctx context.Context, table richTable, row rawRow) (int64, error) {
	updates := make(map[string]any)
	for col, raw := range row.values {
		var canonical string
		if raw == nil {
			canonical = htmlcodec.SerializeDocument(htmlcodec.Load(nil))
		} else {
			canonical = htmlcodec.SerializeDocument(htmlcodec.Load(*raw))
			if canonical == *raw {
				continue
			}
		}
		updates[col] = canonical
	}
	if len(updates) == 0 {
		return 0, nil
	}

	if err := ln.db.WithContext(ctx).Table(table.name).Where("id = ?", row.id).UpdateColumns(updates).Error; err != nil {
		slog.Error("Rewrite rich text fields", "table", table.name, "id", row.id, "err", err)
		return 0, err
	}
	RewrittenFieldsTotal.WithLabelValues(table.name).Add(float64(len(updates)))
	slog.Debug("Rich text fields rewritten", "table", table.name, "id", row.id, "fields", len(updates))
	return int64(len(updates)), nil
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case [16]byte:
		return uuid.UUID(s).String()
	}
	return ""
}
