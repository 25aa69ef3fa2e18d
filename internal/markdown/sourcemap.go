package markdown

import "strconv"

// Entry is one rendered node's record in a source map.
type Entry struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Range Range  `json:"range"`
}

// RangeHit is a single result from a range overlap lookup. LocalStart and
// LocalEnd express the overlap relative to the entry's own start, which is
// what selection highlighting in the rendered view needs.
type RangeHit struct {
	Entry      Entry `json:"entry"`
	LocalStart int   `json:"local_start"`
	LocalEnd   int   `json:"local_end"`
}

// SourceMap indexes the annotated nodes of one render pass for offset
// lookups. A map is immutable after construction and owned by the component
// that built it; a content change builds a replacement rather than mutating
// in place. IDs are sequential within one map instance only.
type SourceMap struct {
	entries []Entry
	byID    map[string]int
}

// BuildSourceMap indexes every annotated node in document order. With
// pre-order input the outermost enclosing node of any offset is always
// iterated first, which pins down the first-match behavior of point lookups.
func BuildSourceMap(ann *Annotation) *SourceMap {
	m := &SourceMap{byID: map[string]int{}}
	if ann == nil {
		return m
	}
	for i, span := range ann.Spans() {
		entry := Entry{
			ID:    "md-" + strconv.Itoa(i),
			Kind:  span.Kind,
			Range: span.Source,
		}
		m.byID[entry.ID] = len(m.entries)
		m.entries = append(m.entries, entry)
	}
	return m
}

// Len returns the number of entries in the map.
func (m *SourceMap) Len() int {
	return len(m.entries)
}

// Entries returns all entries in insertion order. The slice is owned by the
// map and must not be mutated.
func (m *SourceMap) Entries() []Entry {
	return m.entries
}

// Get returns the entry with the given id.
func (m *SourceMap) Get(id string) (Entry, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// FindElementByOffset returns the id of the first entry, in insertion order,
// whose range contains the offset as a half-open interval. Parent and child
// ranges nest, so several entries may contain the offset; the first match
// wins, not the most specific one. Offsets outside the document miss.
func (m *SourceMap) FindElementByOffset(offset int) (string, bool) {
	for _, e := range m.entries {
		if e.Range.Contains(offset) {
			return e.ID, true
		}
	}
	return "", false
}

// FindEntriesInRange returns every entry whose range strictly overlaps the
// half-open selection [start, end), with the overlap in the entry's local
// coordinates. Results follow insertion order; callers needing document
// order must sort by Entry.Range.Start. Empty results are valid: selections
// over bare markdown punctuation have no owning entry.
func (m *SourceMap) FindEntriesInRange(start, end int) []RangeHit {
	var hits []RangeHit
	for _, e := range m.entries {
		if !e.Range.Overlaps(start, end) {
			continue
		}
		localStart := start - e.Range.Start
		if localStart < 0 {
			localStart = 0
		}
		localEnd := end - e.Range.Start
		if localEnd > e.Range.Len() {
			localEnd = e.Range.Len()
		}
		hits = append(hits, RangeHit{Entry: e, LocalStart: localStart, LocalEnd: localEnd})
	}
	return hits
}
