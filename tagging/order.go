package tagging

import "sort"

// Entity kind codes, matching the historical single-character type codes.
const (
	KindPerson = "N"
	KindEvent  = "E"
)

// TaggedEntity is an association row joined with its NameEntity, the unit
// the ordering and reconciliation logic works on.
type TaggedEntity struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	RelationNote string `json:"relation_note,omitempty"`
	Position     int    `json:"position"`
}

// Order computes the canonical display order for a media item's tagged
// entities. The association set is authoritative for membership; the legacy
// list is an ordering hint only. The result is always a permutation of
// the input associations: entities named by legacy tokens come first, in
// token order, followed by any remaining associated entities in position
// order. Tokens that name nothing in the associated set are ignored.
//
// Legacy tokens are matched by display name against the associated set
// only, never against a global name index. If two associated entities share
// a name, tokens claim them in ascending position (then ID) order.
func Order(associated []TaggedEntity, legacy LegacyList) []TaggedEntity {
	byPosition := make([]TaggedEntity, len(associated))
	copy(byPosition, associated)
	sort.SliceStable(byPosition, func(i, j int) bool {
		if byPosition[i].Position != byPosition[j].Position {
			return byPosition[i].Position < byPosition[j].Position
		}
		return byPosition[i].ID < byPosition[j].ID
	})

	if legacy.IsEmpty() {
		return byPosition
	}

	ordered := make([]TaggedEntity, 0, len(byPosition))
	used := make(map[uint]bool, len(byPosition))

	for _, token := range legacy.Tokens {
		for _, entity := range byPosition {
			if entity.Name == token && !used[entity.ID] {
				ordered = append(ordered, entity)
				used[entity.ID] = true
				break
			}
		}
	}

	// entities tagged after the legacy field was last written
	for _, entity := range byPosition {
		if !used[entity.ID] {
			ordered = append(ordered, entity)
		}
	}

	return ordered
}
