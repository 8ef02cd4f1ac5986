package database

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"

	"github.com/familyalbumhq/albumbackend/models"
)

// MediaFilter describes one media query. At most one of the membership
// criteria is set per request; the precedence when several are set is
// Untagged, then person filters, then EventID, matching the historical
// query surface.
type MediaFilter struct {
	// AnyPersonIDs matches items tagged with at least one of the ids.
	AnyPersonIDs []uint
	// ExactPersonIDs matches items whose full person tag set equals the
	// ids exactly, no more and no less.
	ExactPersonIDs []uint
	// EventID matches items carrying an event association with this id.
	EventID *uint
	// Untagged matches items with zero person associations and a zero
	// person-count cache. Both signals must agree: a stale cache alone
	// never hides tagged content.
	Untagged bool

	SortOrder string // SortDateAsc or SortDateDesc
}

var mediaColumns = []string{
	"m.filename", "m.directory", "m.description", "m.width", "m.height",
	"m.month", "m.year", "m.legacy_tag_list", "m.tagged_person_count",
	"m.thumbnail_key", "m.media_type", "m.duration",
	"m.created_at", "m.updated_at",
}

// QueryMedia evaluates a media filter and returns matching items ordered
// by (year, month) in the requested direction, items with unknown dates
// last either way, ties broken by natural filename order. An empty result
// is not an error, and filtering on an id that exists nowhere simply
// matches nothing.
func QueryMedia(db Querier, filter MediaFilter) ([]models.MediaItem, error) {
	builder := psql.Select(mediaColumns...).From("media_items m")

	switch {
	case filter.Untagged:
		builder = builder.Where(sq.And{
			sq.Eq{"m.tagged_person_count": 0},
			sq.Expr(`NOT EXISTS (
				SELECT 1 FROM associations a
				INNER JOIN name_entities ne ON ne.id = a.name_entity_id
				WHERE a.media_item_id = m.filename AND ne.kind = ?
			)`, models.KindPerson),
		})

	case len(filter.ExactPersonIDs) > 0:
		for _, id := range filter.ExactPersonIDs {
			builder = builder.Where(sq.Expr(`EXISTS (
				SELECT 1 FROM associations a
				WHERE a.media_item_id = m.filename AND a.name_entity_id = ?
			)`, id))
		}
		builder = builder.Where(noOtherPeopleCond(filter.ExactPersonIDs))

	case len(filter.AnyPersonIDs) > 0:
		builder = builder.Distinct().
			Join("associations a ON a.media_item_id = m.filename").
			Where(sq.Eq{"a.name_entity_id": filter.AnyPersonIDs})

	case filter.EventID != nil:
		builder = builder.Where(sq.Expr(`EXISTS (
			SELECT 1 FROM associations a
			INNER JOIN name_entities ne ON ne.id = a.name_entity_id
			WHERE a.media_item_id = m.filename AND a.name_entity_id = ? AND ne.kind = ?
		)`, *filter.EventID, models.KindEvent))
	}

	direction := "DESC"
	if filter.SortOrder == SortDateAsc {
		direction = "ASC"
	}
	builder = builder.OrderBy(
		"CASE WHEN m.year IS NULL THEN 1 ELSE 0 END",
		"m.year "+direction,
		"CASE WHEN m.month IS NULL THEN 1 ELSE 0 END",
		"m.month "+direction,
	)

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for QueryMedia: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute media query: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		var item models.MediaItem
		err := rows.Scan(
			&item.Filename, &item.Directory, &item.Description, &item.Width, &item.Height,
			&item.Month, &item.Year, &item.LegacyTagList, &item.TaggedPersonCount,
			&item.ThumbnailKey, &item.MediaType, &item.Duration,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media rows: %w", err)
	}

	// SQL handled the date ordering; re-sorting here settles ties with
	// natural filename order, which SQLite collations cannot express
	ascending := filter.SortOrder == SortDateAsc
	sort.SliceStable(items, func(i, j int) bool {
		if c := compareDates(items[i], items[j], ascending); c != 0 {
			return c < 0
		}
		return natsort.Compare(items[i].Filename, items[j].Filename)
	})

	return items, nil
}

// compareDates orders by (year, month) in the requested direction, with
// unknown dates sorting last regardless of direction.
func compareDates(a, b models.MediaItem, ascending bool) int {
	if c := compareField(a.Year, b.Year, ascending); c != 0 {
		return c
	}
	return compareField(a.Month, b.Month, ascending)
}

func compareField(a, b *int, ascending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a == *b:
		return 0
	case (*a < *b) == ascending:
		return -1
	default:
		return 1
	}
}

// noOtherPeopleCond excludes items tagged with any person outside ids.
// Event associations are unaffected.
func noOtherPeopleCond(ids []uint) sq.Sqlizer {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, models.KindPerson)

	return sq.Expr(fmt.Sprintf(`NOT EXISTS (
		SELECT 1 FROM associations a
		INNER JOIN name_entities ne ON ne.id = a.name_entity_id
		WHERE a.media_item_id = m.filename
		AND a.name_entity_id NOT IN (%s)
		AND ne.kind = ?
	)`, placeholders), args...)
}

