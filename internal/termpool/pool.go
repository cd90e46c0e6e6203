// Package termpool holds the read-only pool of terminology entries that
// questions are generated from.
package termpool

// Entry is a single terminology entry.
type Entry struct {
	// Term is the word or abbreviation being taught, e.g. "SLA (Service Level Agreement)".
	Term string `json:"term" yaml:"term"`

	// Description is the definition shown for the term.
	Description string `json:"description" yaml:"description"`

	// Category groups related entries (e.g. "Strategy", "Technology").
	Category string `json:"category" yaml:"category"`
}

// Pool is an immutable, ordered list of entries. Entries are identified by
// their index; two entries are never compared by their strings.
type Pool struct {
	entries    []Entry
	categories []string
	byCategory map[string][]int
}

// New creates a Pool holding a copy of entries.
func New(entries []Entry) *Pool {
	p := &Pool{
		entries:    make([]Entry, len(entries)),
		byCategory: make(map[string][]int),
	}
	copy(p.entries, entries)

	for i, e := range p.entries {
		if _, seen := p.byCategory[e.Category]; !seen {
			p.categories = append(p.categories, e.Category)
		}
		p.byCategory[e.Category] = append(p.byCategory[e.Category], i)
	}
	return p
}

// Size returns the number of entries.
func (p *Pool) Size() int {
	return len(p.entries)
}

// At returns the entry at index i. It panics if i is out of range.
func (p *Pool) At(i int) Entry {
	return p.entries[i]
}

// Entries returns a copy of all entries in pool order.
func (p *Pool) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Categories returns the distinct categories in first-appearance order.
func (p *Pool) Categories() []string {
	out := make([]string, len(p.categories))
	copy(out, p.categories)
	return out
}

// ByCategory returns the indexes of the entries in category c, in pool order.
func (p *Pool) ByCategory(c string) []int {
	idx := p.byCategory[c]
	out := make([]int, len(idx))
	copy(out, idx)
	return out
}
