package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kindLookup(kinds map[uint]string) EntityKindLookup {
	return func(id uint) (string, bool) {
		kind, ok := kinds[id]
		return kind, ok
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	event := func(id uint, name string, position int) TaggedEntity {
		return TaggedEntity{ID: id, Name: name, Kind: KindEvent, Position: position}
	}

	tests := []struct {
		name         string
		legacy       *string
		associations []TaggedEntity
		kinds        map[uint]string
		want         DiffReport
	}{
		{
			name:         "agreeing_sources",
			legacy:       strPtr("3,7"),
			associations: []TaggedEntity{person(7, "Greta", 0), person(3, "Theo", 1)},
			kinds:        map[uint]string{3: KindPerson, 7: KindPerson},
			want:         DiffReport{Consistent: true},
		},
		{
			name:         "sentinel_with_person_associations_flagged",
			legacy:       strPtr("1"),
			associations: []TaggedEntity{person(5, "Mira", 0)},
			kinds:        map[uint]string{5: KindPerson},
			want:         DiffReport{SentinelConflict: true},
		},
		{
			name:         "sentinel_with_no_people_is_consistent",
			legacy:       strPtr("1"),
			associations: []TaggedEntity{event(12, "Reunion", 0)},
			kinds:        map[uint]string{12: KindEvent},
			want:         DiffReport{Consistent: true},
		},
		{
			name:         "legacy_id_without_association",
			legacy:       strPtr("3,8"),
			associations: []TaggedEntity{person(3, "Theo", 0)},
			kinds:        map[uint]string{3: KindPerson, 8: KindPerson},
			want:         DiffReport{OnlyInLegacy: []uint{8}},
		},
		{
			name:         "orphaned_reference_to_deleted_entity",
			legacy:       strPtr("3,99"),
			associations: []TaggedEntity{person(3, "Theo", 0)},
			kinds:        map[uint]string{3: KindPerson},
			want:         DiffReport{OrphanedRefs: []uint{99}},
		},
		{
			name:         "event_id_in_person_context",
			legacy:       strPtr("3,12"),
			associations: []TaggedEntity{person(3, "Theo", 0), event(12, "Reunion", 0)},
			kinds:        map[uint]string{3: KindPerson, 12: KindEvent},
			want:         DiffReport{KindMismatches: []uint{12}},
		},
		{
			name:         "association_missing_from_legacy",
			legacy:       strPtr("3"),
			associations: []TaggedEntity{person(3, "Theo", 0), person(6, "Nadia", 1)},
			kinds:        map[uint]string{3: KindPerson, 6: KindPerson},
			want:         DiffReport{OnlyInAssociations: []uint{6}},
		},
		{
			name:         "names_only_legacy_makes_no_membership_claims",
			legacy:       strPtr("Theo,Nadia"),
			associations: []TaggedEntity{person(3, "Theo", 0)},
			kinds:        map[uint]string{3: KindPerson},
			want:         DiffReport{Consistent: true},
		},
		{
			name:         "empty_legacy_is_consistent",
			legacy:       nil,
			associations: []TaggedEntity{person(3, "Theo", 0)},
			kinds:        map[uint]string{3: KindPerson},
			want:         DiffReport{Consistent: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Diff("PA130060.JPG", ParseLegacyList(tt.legacy), tt.associations, kindLookup(tt.kinds))

			assert.Equal(t, "PA130060.JPG", got.MediaItemID)
			assert.Equal(t, tt.want.SentinelConflict, got.SentinelConflict)
			assertIDSet(t, tt.want.OnlyInLegacy, got.OnlyInLegacy)
			assertIDSet(t, tt.want.OnlyInAssociations, got.OnlyInAssociations)
			assertIDSet(t, tt.want.OrphanedRefs, got.OrphanedRefs)
			assertIDSet(t, tt.want.KindMismatches, got.KindMismatches)

			wantConsistent := !tt.want.SentinelConflict &&
				len(tt.want.OnlyInLegacy) == 0 &&
				len(tt.want.OnlyInAssociations) == 0 &&
				len(tt.want.OrphanedRefs) == 0 &&
				len(tt.want.KindMismatches) == 0
			assert.Equal(t, wantConsistent, got.Consistent)
		})
	}
}

func assertIDSet(t *testing.T, want, got []uint) {
	t.Helper()
	if want == nil {
		want = []uint{}
	}
	assert.Equal(t, want, got)
}

// The divergent id in a sentinel conflict belongs to neither difference
// set: the sentinel case is reported distinctly, not as a set mismatch.
func TestDiffSentinelConflictSetsStayEmpty(t *testing.T) {
	t.Parallel()

	got := Diff("x.jpg", ParseLegacyList(strPtr("1")),
		[]TaggedEntity{person(5, "Mira", 0)},
		kindLookup(map[uint]string{5: KindPerson}))

	assert.True(t, got.SentinelConflict)
	assert.False(t, got.Consistent)
	assert.Empty(t, got.OnlyInLegacy)
	assert.Empty(t, got.OnlyInAssociations)
}
