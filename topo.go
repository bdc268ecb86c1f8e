package cif

import "sort"

// categoryOrder computes the emission order for cats per spec §4.8: a
// category's rank is 1 + max(parent ranks) (0 for a category with no
// parent links in this set); categories of equal rank sort by reverse
// lexicographic name for determinism. entry and audit_conform, when
// present, are placed first regardless of rank (handled by the caller).
func categoryOrder(cats []*Category) []*Category {
	byName := make(map[string]*Category, len(cats))
	for _, c := range cats {
		byName[c.name] = c
	}

	rank := make(map[string]int, len(cats))
	var resolve func(name string) int
	visiting := make(map[string]bool)
	resolve = func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		if visiting[name] {
			return 0 // cyclic link set; break the cycle rather than loop forever
		}
		visiting[name] = true
		defer delete(visiting, name)

		cat, ok := byName[name]
		if !ok {
			rank[name] = 0
			return 0
		}
		best := 0
		for _, edge := range cat.parentLinks {
			if _, present := byName[edge.otherCategory]; !present {
				continue
			}
			if r := resolve(edge.otherCategory) + 1; r > best {
				best = r
			}
		}
		rank[name] = best
		return best
	}
	for _, c := range cats {
		resolve(c.name)
	}

	out := make([]*Category, len(cats))
	copy(out, cats)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank[out[i].name], rank[out[j].name]
		if ri != rj {
			return ri < rj
		}
		return out[i].name > out[j].name // reverse lexicographic tiebreak
	})
	return out
}
