package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"null", Null(), ""},
		{"integral number", Number(42), "42"},
		{"integral float", Number(100.0), "100"},
		{"fractional number", Number(100.004), "100.004"},
		{"text", Text("abc"), "abc"},
		{"bool", Bool(true), "true"},
		{"time", Time(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), "2024-01-02T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.val.String())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Null().Equal(Text("")))
	assert.True(t, Number(1.5).Equal(Number(1.5)))
	assert.False(t, Number(1).Equal(Text("1")))
	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Text("a").Equal(Text("A")))

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Time(ts).Equal(Time(ts.In(time.FixedZone("X", 3600)))))
}

func TestValueOf_Coercion(t *testing.T) {
	assert.Equal(t, KindNull, ValueOf(nil).Kind())
	assert.Equal(t, KindNumber, ValueOf(int64(7)).Kind())
	assert.Equal(t, 7.0, ValueOf(7).Number())
	assert.Equal(t, KindText, ValueOf([]byte("x")).Kind())
	assert.Equal(t, KindBool, ValueOf(true).Kind())
	assert.Equal(t, KindTime, ValueOf(time.Now()).Kind())

	var null *time.Time
	assert.True(t, ValueOf(null).IsNull())
}

func TestColumn_Kind(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   Kind
	}{
		{"numeric", []Value{Number(1), Null(), Number(2)}, KindNumber},
		{"all null", []Value{Null(), Null()}, KindNull},
		{"mixed falls back to text", []Value{Number(1), Text("a")}, KindText},
		{"text", []Value{Text("a"), Text("b")}, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := Column{Name: "c", Values: tt.values}
			assert.Equal(t, tt.want, col.Kind())
		})
	}
}

func TestColumn_IntegerValued(t *testing.T) {
	ints := Column{Name: "c", Values: []Value{Number(1), Number(2), Null()}}
	assert.True(t, ints.IntegerValued())

	floats := Column{Name: "c", Values: []Value{Number(1.5)}}
	assert.False(t, floats.IntegerValued())

	empty := Column{Name: "c", Values: []Value{Null()}}
	assert.False(t, empty.IntegerValued())
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Column{
		{Name: "a", Values: []Value{Number(1)}},
		{Name: "a", Values: []Value{Number(2)}},
	})
	assert.ErrorContains(t, err, "duplicate column name")

	_, err = New([]Column{
		{Name: "a", Values: []Value{Number(1)}},
		{Name: "b", Values: []Value{Number(1), Number(2)}},
	})
	assert.ErrorContains(t, err, "expected 1")
}

func TestFromRecords(t *testing.T) {
	ds, err := FromRecords([]map[string]any{
		{"id": 1, "amount": 10.5},
		{"id": 2, "status": "open"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"amount", "id", "status"}, ds.ColumnNames())

	// Missing field becomes null.
	assert.True(t, ds.Cell("status", 0).IsNull())
	assert.Equal(t, "open", ds.Cell("status", 1).Text())
	assert.Equal(t, 10.5, ds.Cell("amount", 0).Number())
}

func TestSelect_PreservesOriginalValues(t *testing.T) {
	ds, err := New([]Column{
		{Name: "id", Values: []Value{Number(1), Number(2), Number(3)}},
		{Name: "name", Values: []Value{Text("a"), Text("b"), Text("c")}},
	})
	require.NoError(t, err)

	sub := ds.Select([]int{2, 0})
	assert.Equal(t, 2, sub.RowCount())
	assert.Equal(t, "c", sub.Cell("name", 0).Text())
	assert.Equal(t, 1.0, sub.Cell("id", 1).Number())
}

func TestClone_IsIndependent(t *testing.T) {
	ds, err := New([]Column{{Name: "v", Values: []Value{Text(" x ")}}})
	require.NoError(t, err)

	cp := ds.Clone()
	col, _ := cp.Column("v")
	col.Values[0] = Text("x")

	assert.Equal(t, " x ", ds.Cell("v", 0).Text())
	assert.Equal(t, "x", cp.Cell("v", 0).Text())
}
