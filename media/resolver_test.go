package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(kc *KeyCandidates) []string {
	var out []string
	for {
		key, ok := kc.Next()
		if !ok {
			return out
		}
		out = append(out, key)
	}
}

func TestCandidateKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		directory string
		filename  string
		want      []string
	}{
		{
			name:      "apostrophe_and_space_variants_in_priority_order",
			directory: "Devorah's Wedding",
			filename:  "PA130060.JPG",
			want: []string{
				"Devorah's Wedding/PA130060.JPG",
				"Devorah's%20Wedding/PA130060.JPG",
				"Devorah%27s%20Wedding/PA130060.JPG",
			},
		},
		{
			name:      "plain_path_yields_single_candidate",
			directory: "2004",
			filename:  "IMG_0001.jpg",
			want:      []string{"2004/IMG_0001.jpg"},
		},
		{
			name:      "backslashes_normalized",
			directory: "Family\\Reunion",
			filename:  "photo.jpg",
			want:      []string{"Family/Reunion/photo.jpg"},
		},
		{
			name:      "filename_already_carries_directory",
			directory: "Events",
			filename:  "Events\\Wedding\\ceremony.jpg",
			want:      []string{"Events/Wedding/ceremony.jpg"},
		},
		{
			name:      "empty_directory",
			directory: "",
			filename:  "Summer 2023\\IMG_001.jpg",
			want: []string{
				"Summer 2023/IMG_001.jpg",
				"Summer%202023/IMG_001.jpg",
			},
		},
		{
			name:      "repeated_slashes_collapsed",
			directory: "trips//italy",
			filename:  "rome.jpg",
			want:      []string{"trips/italy/rome.jpg"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kc := CandidateKeys(tt.directory, tt.filename)
			assert.Equal(t, tt.want, drain(kc))

			// restartable: Reset replays the identical sequence
			kc.Reset()
			assert.Equal(t, tt.want, drain(kc))
		})
	}
}

func TestCandidateKeysSpaceOnlyVariantDeduplicated(t *testing.T) {
	t.Parallel()

	// no spaces, but an apostrophe: the %20 variant equals the base and
	// must not be emitted twice
	kc := CandidateKeys("Tom's", "pics.jpg")
	assert.Equal(t, []string{
		"Tom's/pics.jpg",
		"Tom%27s/pics.jpg",
	}, drain(kc))
}

type mapStore struct {
	keys map[string]bool
	// probes records every Exists call, in order
	probes []string
	err    error
}

func (m *mapStore) Exists(key string) (bool, error) {
	m.probes = append(m.probes, key)
	if m.err != nil {
		return false, m.err
	}
	return m.keys[key], nil
}

func TestResolveKey(t *testing.T) {
	t.Parallel()

	t.Run("first_candidate_wins", func(t *testing.T) {
		t.Parallel()
		store := &mapStore{keys: map[string]bool{"Devorah's Wedding/PA130060.JPG": true}}
		key, err := ResolveKey(store, "Devorah's Wedding", "PA130060.JPG")
		require.NoError(t, err)
		assert.Equal(t, "Devorah's Wedding/PA130060.JPG", key)
		assert.Len(t, store.probes, 1)
	})

	t.Run("falls_through_to_encoded_variant", func(t *testing.T) {
		t.Parallel()
		store := &mapStore{keys: map[string]bool{"Devorah%27s%20Wedding/PA130060.JPG": true}}
		key, err := ResolveKey(store, "Devorah's Wedding", "PA130060.JPG")
		require.NoError(t, err)
		assert.Equal(t, "Devorah%27s%20Wedding/PA130060.JPG", key)
		assert.Equal(t, []string{
			"Devorah's Wedding/PA130060.JPG",
			"Devorah's%20Wedding/PA130060.JPG",
			"Devorah%27s%20Wedding/PA130060.JPG",
		}, store.probes)
	})

	t.Run("exhausted_candidates_yield_not_found", func(t *testing.T) {
		t.Parallel()
		store := &mapStore{keys: map[string]bool{}}
		_, err := ResolveKey(store, "Devorah's Wedding", "PA130060.JPG")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, store.probes, 3)
	})

	t.Run("storage_errors_propagate", func(t *testing.T) {
		t.Parallel()
		store := &mapStore{err: assert.AnError}
		_, err := ResolveKey(store, "a", "b.jpg")
		assert.ErrorIs(t, err, assert.AnError)
		assert.Len(t, store.probes, 1)
	})
}
