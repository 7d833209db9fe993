package plist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

type pair struct {
	k, v lisp.Value
}

func pairs(t *testing.T, table *symbol.Table, v lisp.Value) []pair {
	t.Helper()
	var out []pair
	it := Iterate(table, v)
	for it.Next() {
		out = append(out, pair{it.Key(), it.Value()})
	}
	require.NoError(t, it.Err())
	return out
}

func TestShapeOf(t *testing.T) {
	assert.Equal(t, Map, ShapeOf(lisp.NewHashTable()))
	assert.Equal(t, List, ShapeOf(lisp.Nil))
	assert.Equal(t, List, ShapeOf(lisp.List(lisp.Int(1))))
	assert.Equal(t, List, ShapeOf(lisp.NewView(lisp.Nil, 0, -1)))
	assert.Equal(t, Sequence, ShapeOf(lisp.Vector{}))
	assert.Equal(t, Sequence, ShapeOf(lisp.Str("abc")))
}

func TestIteratePositional(t *testing.T) {
	table := symbol.NewTable()
	got := pairs(t, table, lisp.List(lisp.Int(10), lisp.Int(20), lisp.Int(30)))
	assert.Equal(t, []pair{
		{lisp.Int(0), lisp.Int(10)},
		{lisp.Int(1), lisp.Int(20)},
		{lisp.Int(2), lisp.Int(30)},
	}, got)
}

func TestIterateKeywords(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(table.Intern(":a"), lisp.Int(1), table.Intern(":b"), lisp.Int(2))
	got := pairs(t, table, lis)
	require.Len(t, got, 2)
	assert.Same(t, table.Intern("a"), got[0].k)
	assert.Equal(t, lisp.Int(1), got[0].v)
	assert.Same(t, table.Intern("b"), got[1].k)
	assert.Equal(t, lisp.Int(2), got[1].v)
}

func TestIterateMixed(t *testing.T) {
	table := symbol.NewTable()
	x := table.Intern("x")
	lis := lisp.List(x, table.Intern(":k"), lisp.Int(5), lisp.Int(7), table.Intern(":end"))
	got := pairs(t, table, lis)
	assert.Equal(t, []pair{
		{lisp.Int(0), x},
		{table.Intern("k"), lisp.Int(5)},
		{lisp.Int(1), lisp.Int(7)},
		{table.Intern("end"), lisp.Nil},
	}, got)
}

func TestIterateDotted(t *testing.T) {
	table := symbol.NewTable()
	it := Iterate(table, lisp.ListStar(lisp.Int(1), lisp.Int(2)))
	assert.True(t, it.Next())
	assert.False(t, it.Next())
	assert.Error(t, it.Err())
	assert.False(t, it.Next())
}

func TestAll(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(table.Intern(":a"), lisp.Int(1), lisp.Int(2))
	var keys []string
	for k := range All(table, lis) {
		keys = append(keys, lisp.Sprint(k))
	}
	assert.Equal(t, []string{"a", "0"}, keys)
}

func TestGetList(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(lisp.Int(10), table.Intern(":name"), lisp.Str("y"), lisp.Int(20))

	v, err := Get(table, lis, table.Intern("name"))
	require.NoError(t, err)
	assert.Equal(t, lisp.Str("y"), v)

	v, err = Get(table, lis, table.Intern(":name"))
	require.NoError(t, err)
	assert.Equal(t, lisp.Str("y"), v)

	v, err = Get(table, lis, lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(20), v)
}

func TestGetListMissIsNil(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(lisp.Int(10))

	v, err := Get(table, lis, table.Intern("absent"))
	require.NoError(t, err)
	assert.Same(t, symbol.Nil, v)

	v, err = Get(table, lis, lisp.Int(5))
	require.NoError(t, err)
	assert.Same(t, symbol.Nil, v)

	v, err = Get(table, lisp.Nil, lisp.Int(0))
	require.NoError(t, err)
	assert.Same(t, symbol.Nil, v)
}

func TestGetFuncComparator(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(lisp.List(lisp.Int(1)), lisp.Str("first"))

	v, err := GetFunc(table, lisp.List(table.Intern(":k"), lisp.Int(1)), table.Intern("k"), lisp.Eqv)
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(1), v)

	v, err = GetFunc(table, lis, lisp.Float(1), lisp.Eqv)
	require.NoError(t, err)
	assert.Equal(t, lisp.Str("first"), v)

	v, err = Get(table, lis, lisp.Float(1))
	require.NoError(t, err)
	assert.Same(t, symbol.Nil, v)
}

func TestGetMap(t *testing.T) {
	table := symbol.NewTable()
	h := lisp.NewHashTable()
	require.NoError(t, h.Put(table.Intern("a"), lisp.Int(1)))

	v, err := Get(table, h, table.Intern("a"))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(1), v)

	_, err = Get(table, h, table.Intern("b"))
	var le *LookupError
	assert.ErrorAs(t, err, &le)
}

func TestGetSequence(t *testing.T) {
	table := symbol.NewTable()
	vec := lisp.Vector{lisp.Int(1), lisp.Int(2)}

	v, err := Get(table, vec, lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(2), v)

	_, err = Get(table, vec, lisp.Int(2))
	var ie *IndexError
	assert.ErrorAs(t, err, &ie)

	_, err = Get(table, vec, lisp.Int(-1))
	assert.ErrorAs(t, err, &ie)

	v, err = Get(table, lisp.Str("héllo"), lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int('é'), v)

	_, err = Get(table, lisp.Int(3), lisp.Int(0))
	var wt *lisp.WrongTypeError
	assert.ErrorAs(t, err, &wt)
}

func TestPutListOverwrite(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(table.Intern(":a"), lisp.Int(1), lisp.Int(10))

	out, err := Put(table, lis, table.Intern("a"), lisp.Int(2))
	require.NoError(t, err)
	assert.Equal(t, "(:a 2 10)", lisp.Sprint(out))

	out, err = Put(table, out, lisp.Int(0), lisp.Int(11))
	require.NoError(t, err)
	assert.Equal(t, "(:a 2 11)", lisp.Sprint(out))
}

func TestPutListAppend(t *testing.T) {
	table := symbol.NewTable()

	out, err := Put(table, lisp.Nil, table.Intern("a"), lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, "(:a 1)", lisp.Sprint(out))

	out, err = Put(table, out, lisp.Int(0), lisp.Int(5))
	require.NoError(t, err)
	assert.Equal(t, "(:a 1 5)", lisp.Sprint(out))

	out, err = Put(table, out, table.Intern(":b"), lisp.Int(2))
	require.NoError(t, err)
	assert.Equal(t, "(:a 1 5 :b 2)", lisp.Sprint(out))

	_, err = Put(table, out, lisp.Int(3), lisp.Int(9))
	var ie *IndexError
	assert.ErrorAs(t, err, &ie)
}

func TestPutTrailingKeyword(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(table.Intern(":a"))

	out, err := Put(table, lis, table.Intern("b"), lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, "(:a nil :b 1)", lisp.Sprint(out))
}

func TestPutWipeList(t *testing.T) {
	table := symbol.NewTable()
	a, b := table.Intern(":a"), table.Intern(":b")

	out, err := Remove(table, lisp.List(a, lisp.Int(1), b, lisp.Int(2)), table.Intern("a"))
	require.NoError(t, err)
	assert.Equal(t, "(:b 2)", lisp.Sprint(out))

	out, err = Remove(table, lisp.List(a, lisp.Int(1), b, lisp.Int(2)), table.Intern("b"))
	require.NoError(t, err)
	assert.Equal(t, "(:a 1)", lisp.Sprint(out))

	out, err = Put(table, lisp.List(lisp.Int(10), lisp.Int(20), lisp.Int(30)), lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, "(10 30)", lisp.Sprint(out))

	out, err = Put(table, lisp.List(lisp.Int(10)), lisp.Int(0))
	require.NoError(t, err)
	assert.Same(t, symbol.Nil, out)

	n, err := lisp.Len(out)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPutWipeAbsent(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(lisp.Int(1))
	out, err := Remove(table, lis, table.Intern("zzz"))
	require.NoError(t, err)
	assert.Same(t, lis, out)
	assert.Equal(t, "(1)", lisp.Sprint(out))
}

func TestPutWipeAbsentTrailingKeyword(t *testing.T) {
	table := symbol.NewTable()
	lis := lisp.List(table.Intern(":a"), lisp.Int(1), table.Intern(":b"))

	out, err := Remove(table, lis, table.Intern("zzz"))
	require.NoError(t, err)
	assert.Same(t, lis, out)
	assert.Equal(t, "(:a 1 :b)", lisp.Sprint(out))

	out, err = Remove(table, lis, table.Intern("b"))
	require.NoError(t, err)
	assert.Equal(t, "(:a 1)", lisp.Sprint(out))
}

func TestPutWipeAllMatches(t *testing.T) {
	table := symbol.NewTable()
	a := table.Intern(":a")
	lis := lisp.List(a, lisp.Int(1), lisp.Int(10), a, lisp.Int(2), table.Intern(":c"), lisp.Int(3))

	out, err := Remove(table, lis, table.Intern("a"))
	require.NoError(t, err)
	assert.Equal(t, "(10 :c 3)", lisp.Sprint(out))

	v, err := Get(table, out, table.Intern("a"))
	require.NoError(t, err)
	assert.Same(t, symbol.Nil, v)
}

func TestPutMap(t *testing.T) {
	table := symbol.NewTable()
	h := lisp.NewHashTable()
	k := table.Intern("k")

	_, err := Put(table, h, k, lisp.Int(1))
	require.NoError(t, err)
	v, err := Get(table, h, k)
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(1), v)

	_, err = Remove(table, h, k)
	require.NoError(t, err)
	_, err = Get(table, h, k)
	assert.Error(t, err)
}

func TestPutSequence(t *testing.T) {
	table := symbol.NewTable()
	vec := lisp.Vector{lisp.Int(1), lisp.Int(2), lisp.Int(3)}

	out, err := Put(table, vec, lisp.Int(0), lisp.Int(9))
	require.NoError(t, err)
	assert.Equal(t, "[9 2 3]", lisp.Sprint(out))

	out, err = Remove(table, out, lisp.Int(1))
	require.NoError(t, err)
	assert.Equal(t, "[9 3]", lisp.Sprint(out))

	_, err = Put(table, vec, lisp.Int(7), lisp.Int(9))
	var ie *IndexError
	assert.ErrorAs(t, err, &ie)

	_, err = Put(table, lisp.Str("abc"), lisp.Int(0), lisp.Int(1))
	assert.Error(t, err)
}
