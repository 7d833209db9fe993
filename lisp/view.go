package lisp

// View is a lazily sliced window over a list. Nothing is copied until Seq is
// called; taking the cdr of a view just narrows the window.
type View struct {
	list  Value
	start int
	end   int // -1 means through the end of the list
}

// NewView returns a view of list covering elements [start, end). A negative
// end means the view runs to the end of the list.
func NewView(list Value, start, end int) *View {
	if start < 0 {
		start = 0
	}
	if end >= 0 && end < start {
		end = start
	}
	return &View{list: list, start: start, end: end}
}

// Slice narrows the view further; indexes are relative to the view.
func (v *View) Slice(start, end int) *View {
	if start < 0 {
		start = 0
	}
	s := v.start + start
	e := -1
	if end >= 0 {
		e = v.start + end
	}
	if v.end >= 0 && (e < 0 || e > v.end) {
		e = v.end
	}
	return NewView(v.list, s, e)
}

// Seq materializes the view. An unbounded view shares its tail with the
// underlying list; a bounded view is copied.
func (v *View) Seq() Value {
	rest, err := Nthcdr(v.start, v.list)
	if err != nil || IsNil(rest) {
		return Nil
	}
	if v.end < 0 {
		return rest
	}
	var out []Value
	it := NewListIterator(rest)
	for n := v.end - v.start; n > 0 && it.Next(); n-- {
		out = append(out, it.Value())
	}
	return List(out...)
}

// Empty reports whether the view covers no elements.
func (v *View) Empty() bool {
	if v.end >= 0 && v.end <= v.start {
		return true
	}
	rest, err := Nthcdr(v.start, v.list)
	return err != nil || IsNil(rest)
}

func (v *View) car() (Value, error) {
	if v.Empty() {
		return Nil, nil
	}
	rest, err := Nthcdr(v.start, v.list)
	if err != nil {
		return nil, err
	}
	return Car(rest)
}

func (v *View) cdr() (Value, error) {
	if v.Empty() {
		return Nil, nil
	}
	return NewView(v.list, v.start+1, v.end), nil
}

// String prints the materialized view.
func (v *View) String() string {
	return Sprint(v.Seq())
}
