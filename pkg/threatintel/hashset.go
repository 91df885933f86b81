package threatintel

import (
	"slices"

	"github.com/samber/lo"
)

// HashSet holds opaque hash records; equality is exact string equality.
type HashSet map[string]struct{}

func NewHashSet(records ...string) HashSet {
	s := make(HashSet, len(records))
	for _, r := range records {
		s.Add(r)
	}
	return s
}

func (s HashSet) Add(record string) {
	s[record] = struct{}{}
}

func (s HashSet) Has(record string) bool {
	_, ok := s[record]
	return ok
}

func (s HashSet) Merge(other HashSet) {
	for r := range other {
		s[r] = struct{}{}
	}
}

func (s HashSet) Len() int {
	return len(s)
}

func (s HashSet) Sorted() []string {
	records := lo.Keys(s)
	slices.Sort(records)
	return records
}
