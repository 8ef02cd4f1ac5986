package tagging

import (
	"sort"
	"strconv"
)

// DiffReport classifies the divergence between a media item's two tag
// representations. It is informational: the read path never acts on it,
// only audit and maintenance flows do.
type DiffReport struct {
	MediaItemID string `json:"media_item_id"`

	// OnlyInLegacy holds person IDs referenced by the legacy list that
	// resolve to a known entity but have no association row.
	OnlyInLegacy []uint `json:"only_in_legacy"`
	// OnlyInAssociations holds person association IDs absent from the
	// legacy list's numeric references.
	OnlyInAssociations []uint `json:"only_in_associations"`
	// OrphanedRefs holds numeric legacy references with no association row
	// and no resolvable entity at all, likely deleted entities.
	OrphanedRefs []uint `json:"orphaned_refs"`
	// KindMismatches holds IDs present in both sources whose entity is not
	// a person, e.g. an event ID mixed into a person-only context.
	KindMismatches []uint `json:"kind_mismatches"`
	// SentinelConflict is set when the legacy field says "no people" while
	// person associations exist.
	SentinelConflict bool `json:"sentinel_conflict"`

	Consistent bool `json:"consistent"`
}

// EntityKindLookup resolves an entity ID to its kind. The second return is
// false when no entity with that ID exists.
type EntityKindLookup func(id uint) (string, bool)

// Diff compares a media item's legacy list against its full association
// set. Only numeric legacy tokens participate: name tokens carry ordering
// information, not membership claims, so a legacy list with no numeric
// tokens contributes nothing and the item is reported consistent unless
// the sentinel conflicts.
func Diff(mediaItemID string, legacy LegacyList, associations []TaggedEntity, lookup EntityKindLookup) DiffReport {
	report := DiffReport{
		MediaItemID:        mediaItemID,
		OnlyInLegacy:       []uint{},
		OnlyInAssociations: []uint{},
		OrphanedRefs:       []uint{},
		KindMismatches:     []uint{},
	}

	personIDs := make(map[uint]bool)
	allIDs := make(map[uint]bool)
	for _, entity := range associations {
		allIDs[entity.ID] = true
		if entity.Kind == KindPerson {
			personIDs[entity.ID] = true
		}
	}

	if legacy.Sentinel {
		report.SentinelConflict = len(personIDs) > 0
		report.Consistent = !report.SentinelConflict
		return report
	}

	legacyIDs := make(map[uint]bool)
	for _, token := range legacy.Tokens {
		id, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			continue // name token, ordering hint only
		}
		legacyIDs[uint(id)] = true
	}

	for id := range legacyIDs {
		switch {
		case personIDs[id]:
			// agrees
		case allIDs[id]:
			report.KindMismatches = append(report.KindMismatches, id)
		default:
			if _, ok := lookup(id); ok {
				report.OnlyInLegacy = append(report.OnlyInLegacy, id)
			} else {
				report.OrphanedRefs = append(report.OrphanedRefs, id)
			}
		}
	}

	// a names-only legacy list makes no membership claims
	if len(legacyIDs) > 0 {
		for id := range personIDs {
			if !legacyIDs[id] {
				report.OnlyInAssociations = append(report.OnlyInAssociations, id)
			}
		}
	}

	sortIDs(report.OnlyInLegacy)
	sortIDs(report.OnlyInAssociations)
	sortIDs(report.OrphanedRefs)
	sortIDs(report.KindMismatches)

	report.Consistent = len(report.OnlyInLegacy) == 0 &&
		len(report.OnlyInAssociations) == 0 &&
		len(report.OrphanedRefs) == 0 &&
		len(report.KindMismatches) == 0
	return report
}

func sortIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
