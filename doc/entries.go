package doc

import "github.com/signadot/tony-include/ir"

// Entry is a child of a node together with the field name it appears under.
type Entry struct {
	Name string // empty for array elements and comments
	Node Node
}

// Entries collects the children of n with their field names.
//
// Children of an object are aligned in order with its values: a value that
// is not an include site stands for exactly one child holding that value,
// and an include site stands for whatever was yielded in its place, so
// included content takes the field name of its site.
func Entries(n Node) ([]Entry, error) {
	y, err := n.IR()
	if err != nil {
		return nil, err
	}
	var (
		res  []Entry
		irs  []*ir.Node
		cerr error
	)
	_, err = n.ProcessChildren(func(c Node) bool {
		cy, err := c.IR()
		if err != nil {
			cerr = err
			return false
		}
		res = append(res, Entry{Node: c})
		irs = append(irs, cy)
		return true
	})
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, cerr
	}
	if y.Type != ir.ObjectType {
		return res, nil
	}
	var (
		idx []int // into res, comments dropped
		vs  []*ir.Node
	)
	for i, cy := range irs {
		if cy.Type != ir.CommentType {
			idx = append(idx, i)
			vs = append(vs, cy)
		}
	}
	a := &aligner{vals: y.Values, kids: vs, memo: map[[2]int]bool{}}
	if !a.align(0, 0) {
		for _, i := range idx {
			res[i].Name = irs[i].ParentField
		}
		return res, nil
	}
	for j, i := range idx {
		res[i].Name = y.Fields[a.owner[j]].String
	}
	return res, nil
}

// aligner matches children to the values of an object in order.
type aligner struct {
	vals  []*ir.Node
	kids  []*ir.Node
	owner []int // value index per child, filled on success
	memo  map[[2]int]bool
}

// align reports whether kids[i:] can be matched to vals[k:]. Include sites
// preferably take one child, then none, then more.
func (a *aligner) align(i, k int) bool {
	key := [2]int{i, k}
	if ok, seen := a.memo[key]; seen && !ok {
		return false
	}
	ok := a.try(i, k)
	a.memo[key] = ok
	return ok
}

func (a *aligner) try(i, k int) bool {
	if k == len(a.vals) {
		if i == len(a.kids) {
			a.owner = make([]int, len(a.kids))
			return true
		}
		return false
	}
	if !IsIncludeSite(a.vals[k]) {
		if i < len(a.kids) && a.kids[i] == a.vals[k] && a.align(i+1, k+1) {
			a.owner[i] = k
			return true
		}
		return false
	}
	order := []int{i + 1, i}
	for j := i + 2; j <= len(a.kids); j++ {
		order = append(order, j)
	}
	for _, j := range order {
		if j > len(a.kids) {
			continue
		}
		if a.align(j, k+1) {
			for x := i; x < j; x++ {
				a.owner[x] = k
			}
			return true
		}
	}
	return false
}
