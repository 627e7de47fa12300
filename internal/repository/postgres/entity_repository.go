package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/domain/repository"
	"github.com/evmap-service/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type entityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewEntityRepository(db *DB) repository.EntityRepository {
	return &entityRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// coordExpr приводит текстовую координатную колонку к float8.
// Колонки хранят значения как в импортированных каталогах: возможна
// запятая как десятичный разделитель, возможен мусор - он даёт NULL
// и выпадает из рамки, финальную проверку всё равно делает ядро.
func coordExpr(column string) string {
	return fmt.Sprintf(
		`(CASE WHEN e.%s ~ '^-?[0-9]+([.,][0-9]+)?$' THEN replace(e.%s, ',', '.')::float8 END)`,
		column, column,
	)
}

type entityRow struct {
	ID        uuid.UUID      `db:"id"`
	Title     string         `db:"title"`
	RawLat    sql.NullString `db:"raw_lat"`
	RawLng    sql.NullString `db:"raw_lng"`
	Meta      []byte         `db:"meta"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type tagRow struct {
	EntityID uuid.UUID `db:"entity_id"`
	Axis     string    `db:"axis"`
	Slug     string    `db:"slug"`
	Name     string    `db:"name"`
}

func (r *entityRepository) Find(
	ctx context.Context,
	kind string,
	filter domain.EntityFilter,
	bbox *domain.BoundingBox,
	limit int,
) ([]*domain.Entity, error) {
	schema, ok := domain.KindSchemas[kind]
	if !ok {
		return nil, errors.ErrInvalidKind
	}

	query, args := buildFindQuery(schema, filter, bbox, limit, false)

	return r.fetch(ctx, schema, query, args)
}

func (r *entityRepository) FindRecent(
	ctx context.Context,
	kind string,
	filter domain.EntityFilter,
	limit int,
) ([]*domain.Entity, error) {
	schema, ok := domain.KindSchemas[kind]
	if !ok {
		return nil, errors.ErrInvalidKind
	}

	query, args := buildFindQuery(schema, filter, nil, limit, true)

	return r.fetch(ctx, schema, query, args)
}

func (r *entityRepository) GetByID(ctx context.Context, kind string, id uuid.UUID) (*domain.Entity, error) {
	schema, ok := domain.KindSchemas[kind]
	if !ok {
		return nil, errors.ErrInvalidKind
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.title, e.%s AS raw_lat, e.%s AS raw_lng, e.meta, e.created_at, e.updated_at
		FROM %s e
		WHERE e.id = $1
	`, schema.LatColumn, schema.LngColumn, schema.Table)

	var row entityRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrEntityNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get entity by ID",
			zap.String("kind", kind),
			zap.String("id", id.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	entities, err := r.attachTags(ctx, schema, []*entityRow{&row})
	if err != nil {
		return nil, err
	}
	return entities[0], nil
}

// buildFindQuery собирает SQL кандидатного запроса: рамка (если есть),
// equality по метаданным, EXISTS по каждой оси таксономии
func buildFindQuery(
	schema domain.KindSchema,
	filter domain.EntityFilter,
	bbox *domain.BoundingBox,
	limit int,
	byRecency bool,
) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, 8)

	fmt.Fprintf(&sb, `
		SELECT e.id, e.title, e.%s AS raw_lat, e.%s AS raw_lng, e.meta, e.created_at, e.updated_at
		FROM %s e
		WHERE 1=1
	`, schema.LatColumn, schema.LngColumn, schema.Table)

	if bbox != nil {
		latExpr := coordExpr(schema.LatColumn)
		lngExpr := coordExpr(schema.LngColumn)
		fmt.Fprintf(&sb, " AND %s BETWEEN $%d AND $%d", latExpr, len(args)+1, len(args)+2)
		args = append(args, bbox.MinLat, bbox.MaxLat)
		fmt.Fprintf(&sb, " AND %s BETWEEN $%d AND $%d", lngExpr, len(args)+1, len(args)+2)
		args = append(args, bbox.MinLng, bbox.MaxLng)
	}

	// Детерминированный порядок условий (важно для планов и тестов)
	metaKeys := make([]string, 0, len(filter.Meta))
	for k := range filter.Meta {
		metaKeys = append(metaKeys, k)
	}
	sort.Strings(metaKeys)
	for _, k := range metaKeys {
		fmt.Fprintf(&sb, " AND e.meta->>$%d = $%d", len(args)+1, len(args)+2)
		args = append(args, k, filter.Meta[k])
	}

	axes := make([]string, 0, len(filter.TagAxes))
	for axis := range filter.TagAxes {
		axes = append(axes, axis)
	}
	sort.Strings(axes)
	for _, axis := range axes {
		slugs := filter.TagAxes[axis]
		if len(slugs) == 0 {
			continue
		}
		fmt.Fprintf(&sb,
			" AND EXISTS (SELECT 1 FROM %s t WHERE t.entity_id = e.id AND t.axis = $%d AND t.slug = ANY($%d))",
			schema.TagsTable, len(args)+1, len(args)+2)
		args = append(args, axis, pq.Array(slugs))
	}

	if byRecency {
		sb.WriteString(" ORDER BY e.updated_at DESC")
	} else {
		sb.WriteString(" ORDER BY e.created_at, e.id")
	}

	fmt.Fprintf(&sb, " LIMIT $%d", len(args)+1)
	args = append(args, limit)

	return sb.String(), args
}

func (r *entityRepository) fetch(
	ctx context.Context,
	schema domain.KindSchema,
	query string,
	args []interface{},
) ([]*domain.Entity, error) {
	var rows []*entityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to find entities",
			zap.String("kind", schema.Kind),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return r.attachTags(ctx, schema, rows)
}

// attachTags загружает привязки таксономий одним запросом и собирает Entity
func (r *entityRepository) attachTags(
	ctx context.Context,
	schema domain.KindSchema,
	rows []*entityRow,
) ([]*domain.Entity, error) {
	entities := make([]*domain.Entity, 0, len(rows))
	if len(rows) == 0 {
		return entities, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query := fmt.Sprintf(`
		SELECT entity_id, axis, slug, name
		FROM %s
		WHERE entity_id = ANY($1)
		ORDER BY entity_id, axis, position
	`, schema.TagsTable)

	var tags []tagRow
	if err := r.db.SelectContext(ctx, &tags, query, pq.Array(ids)); err != nil {
		r.logger.Error("Failed to load entity tags",
			zap.String("kind", schema.Kind),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	tagsByEntity := make(map[uuid.UUID]map[string][]domain.Tag, len(rows))
	for _, t := range tags {
		byAxis, ok := tagsByEntity[t.EntityID]
		if !ok {
			byAxis = make(map[string][]domain.Tag)
			tagsByEntity[t.EntityID] = byAxis
		}
		byAxis[t.Axis] = append(byAxis[t.Axis], domain.Tag{Slug: t.Slug, Name: t.Name})
	}

	for _, row := range rows {
		meta := make(map[string]string)
		if len(row.Meta) > 0 {
			if err := json.Unmarshal(row.Meta, &meta); err != nil {
				// Битые метаданные не роняют всю выборку
				r.logger.Warn("Failed to unmarshal entity meta",
					zap.String("id", row.ID.String()),
					zap.Error(err))
				meta = make(map[string]string)
			}
		}

		entities = append(entities, &domain.Entity{
			ID:        row.ID,
			Kind:      schema.Kind,
			Title:     row.Title,
			RawLat:    row.RawLat.String,
			RawLng:    row.RawLng.String,
			Tags:      tagsByEntity[row.ID],
			Meta:      meta,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return entities, nil
}
