package media

import (
	"net/url"
	"strings"
)

// KeyCandidates iterates the encoding variants of a stored media path, in
// the priority order historically observed to resolve: the plainly joined
// path first, then the variant with spaces written as %20, then the fully
// percent-encoded variant with apostrophes forced to %27. The order is a
// heuristic over real encoding bugs in old data and must stay stable so
// existing links keep resolving.
//
// Candidates are produced lazily and deduplicated; Reset restarts the
// sequence. Consumers stop at the first key that matches a stored object.
type KeyCandidates struct {
	base    string
	next    int
	emitted []string
}

// CandidateKeys builds the candidate sequence for a media item's stored
// directory and filename. Either may contain backslashes, literal spaces,
// or unescaped apostrophes, and filename may already carry the directory
// prefix.
func CandidateKeys(directory, filename string) *KeyCandidates {
	var joined string
	switch {
	case directory != "" && strings.HasPrefix(filename, directory):
		joined = filename // already prefixed, avoid doubling the directory
	case directory != "":
		joined = directory + "/" + filename
	default:
		joined = filename
	}

	joined = strings.ReplaceAll(joined, "\\", "/")
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}

	return &KeyCandidates{base: joined}
}

const candidateVariants = 3

// Next returns the next untried candidate key. The second return is false
// once the sequence is exhausted.
func (kc *KeyCandidates) Next() (string, bool) {
	for kc.next < candidateVariants {
		var candidate string
		switch kc.next {
		case 0:
			candidate = kc.base
		case 1:
			candidate = strings.ReplaceAll(kc.base, " ", "%20")
		case 2:
			candidate = encodeSegments(kc.base)
		}
		kc.next++

		if kc.seen(candidate) {
			continue
		}
		kc.emitted = append(kc.emitted, candidate)
		return candidate, true
	}
	return "", false
}

// Reset restarts the candidate sequence from the beginning.
func (kc *KeyCandidates) Reset() {
	kc.next = 0
	kc.emitted = kc.emitted[:0]
}

func (kc *KeyCandidates) seen(candidate string) bool {
	for _, e := range kc.emitted {
		if e == candidate {
			return true
		}
	}
	return false
}

// encodeSegments percent-encodes every path segment. Apostrophes are
// forced to %27: the encoders that wrote these keys left them literal in
// some eras and escaped them in others.
func encodeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = strings.ReplaceAll(url.PathEscape(segment), "'", "%27")
	}
	return strings.Join(segments, "/")
}

// ExistenceProber is the subset of Store needed to probe candidate keys.
type ExistenceProber interface {
	Exists(key string) (bool, error)
}

// ResolveKey probes the store with each candidate key in order and returns
// the first that matches a stored object. Each probe is independent; a
// concurrent delete mid-probe simply yields ErrNotFound. Storage errors
// propagate immediately.
func ResolveKey(store ExistenceProber, directory, filename string) (string, error) {
	candidates := CandidateKeys(directory, filename)
	for {
		key, ok := candidates.Next()
		if !ok {
			return "", ErrNotFound
		}
		found, err := store.Exists(key)
		if err != nil {
			return "", err
		}
		if found {
			return key, nil
		}
	}
}
