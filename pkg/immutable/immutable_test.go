package immutable_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/immutable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type shelter struct {
	Counter int `json:"counter"`
	Open    bool
	Items   []string         `json:"items"`
	Pets    []pet            `json:"pets"`
	Tags    []map[string]any `json:"tags"`
	Note    string           `oodux:"-"`
}

func (shelter) Default() shelter {
	return shelter{Items: []string{}, Pets: []pet{}}
}

func seeded() shelter {
	s := immutable.New[shelter]()
	s.Items = []string{"a", "b"}
	s.Pets = []pet{{ID: 1, Name: "Tom", Age: 3}, {ID: 2, Name: "Rex", Age: 5}}
	return s
}

func requireInvalidPayload(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	}()
	fn()
}

func TestNew_UsesDefault(t *testing.T) {
	s := immutable.New[shelter]()
	require.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.Counter)

	cleared := immutable.Clear(seeded())
	assert.Equal(t, immutable.New[shelter](), cleared)
}

func TestUpdate_OnlyTouchesPatchedFields(t *testing.T) {
	s := seeded()
	next := immutable.Update(s, immutable.Patch{"counter": 3, "missing": true})

	assert.Equal(t, 3, next.Counter)
	assert.Equal(t, 0, s.Counter, "input snapshot must not change")
	assert.True(t, immutable.Same(s.Items, next.Items), "unpatched fields keep their reference")
	assert.True(t, immutable.Same(s.Pets, next.Pets))
}

func TestUpdate_GoNameAndConversion(t *testing.T) {
	next := immutable.Update(seeded(), immutable.Patch{"Counter": 2.0, "open": true})
	assert.Equal(t, 2, next.Counter)
	assert.True(t, next.Open)
}

func TestUpdate_IgnoresHiddenField(t *testing.T) {
	next := immutable.Update(seeded(), immutable.Patch{"note": "x"})
	assert.Equal(t, "", next.Note)
}

func TestUpdate_PanicsOnIncompatibleValue(t *testing.T) {
	requireInvalidPayload(t, func() {
		immutable.Update(seeded(), immutable.Patch{"open": []int{1}})
	})
}

func TestCoerce_Numbers(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want any
		ok   bool
	}{
		{"whole float to int", 2.0, 2, true},
		{"fraction to int", 2.5, 0, false},
		{"huge float to int", 1e300, 0, false},
		{"infinity to int", math.Inf(1), 0, false},
		{"negative to uint", -1, uint(0), false},
		{"negative float to uint", -1.0, uint(0), false},
		{"int to uint", 7, uint(7), true},
		{"overflow int8", 300, int8(0), false},
		{"fits int8", -128, int8(-128), true},
		{"huge uint to int64", uint64(math.MaxUint64), int64(0), false},
		{"float64 to float32", 0.5, float32(0.5), true},
		{"float64 overflows float32", 1e300, float32(0), false},
		{"int to float", 3, 3.0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := immutable.Coerce(tc.val, reflect.TypeOf(tc.want))
			if !tc.ok {
				var fe *immutable.FieldError
				require.ErrorAs(t, err, &fe)
				assert.ErrorIs(t, err, domain.ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Interface())
		})
	}
}

func TestUpdate_RejectsLossyNumber(t *testing.T) {
	requireInvalidPayload(t, func() {
		immutable.Update(seeded(), immutable.Patch{"counter": 2.5})
	})
	requireInvalidPayload(t, func() {
		immutable.Update(seeded(), immutable.Patch{"counter": 1e300})
	})
}

func TestAddAndRemove(t *testing.T) {
	s := immutable.New[shelter]()
	s = immutable.Add(s, immutable.Patch{"items": "x"})
	s = immutable.Add(s, immutable.Patch{"items": "y"})
	assert.Equal(t, []string{"x", "y"}, s.Items)

	before := s
	s = immutable.Remove(s, immutable.Patch{"items": "x"})
	assert.Equal(t, []string{"y"}, s.Items)
	assert.Equal(t, []string{"x", "y"}, before.Items, "remove must not touch the old backing array")
}

func TestRemove_OnlyStrictlyEqual(t *testing.T) {
	s := seeded()
	s = immutable.Add(s, immutable.Patch{"items": "a"})
	s = immutable.Remove(s, immutable.Patch{"items": "a"})
	assert.Equal(t, []string{"b"}, s.Items)

	s = immutable.Remove(s, immutable.Patch{"items": "zzz"})
	assert.Equal(t, []string{"b"}, s.Items)
}

func TestAdd_DoesNotAliasSpareCapacity(t *testing.T) {
	s := immutable.New[shelter]()
	s.Items = make([]string, 1, 8)
	left := immutable.Add(s, immutable.Patch{"items": "left"})
	right := immutable.Add(s, immutable.Patch{"items": "right"})
	assert.Equal(t, "left", left.Items[1])
	assert.Equal(t, "right", right.Items[1])
}

func TestConcat(t *testing.T) {
	s := immutable.Concat(seeded(), immutable.Patch{"items": []any{"c", "d"}})
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Items)
}

func TestAdd_PanicsOnScalarField(t *testing.T) {
	requireInvalidPayload(t, func() {
		immutable.Add(seeded(), immutable.Patch{"counter": 1})
	})
}

func TestUpdateByID(t *testing.T) {
	s := seeded()
	next := immutable.UpdateByID(s, immutable.Patch{"pets": map[string]any{"id": 2, "name": "Max"}})

	assert.Equal(t, pet{ID: 2, Name: "Max", Age: 5}, next.Pets[1], "only the partial's keys are merged")
	assert.Equal(t, s.Pets[0], next.Pets[0])
	assert.Equal(t, "Rex", s.Pets[1].Name, "original element untouched")
}

func TestUpdateByID_ElementPartial(t *testing.T) {
	next := immutable.UpdateByID(seeded(), immutable.Patch{"pets": pet{ID: 1, Name: "Tim", Age: 4}})
	assert.Equal(t, pet{ID: 1, Name: "Tim", Age: 4}, next.Pets[0])
	assert.Equal(t, "Rex", next.Pets[1].Name)
}

func TestUpdateByID_StructPartialResetsOmittedFields(t *testing.T) {
	s := seeded()

	byStruct := immutable.UpdateByID(s, immutable.Patch{"pets": pet{ID: 1, Name: "Tim"}})
	assert.Equal(t, pet{ID: 1, Name: "Tim", Age: 0}, byStruct.Pets[0], "zero Age overwrites the stored one")

	byMap := immutable.UpdateByID(s, immutable.Patch{"pets": map[string]any{"id": 1, "name": "Tim"}})
	assert.Equal(t, pet{ID: 1, Name: "Tim", Age: 3}, byMap.Pets[0], "a map partial keeps Age")
}

func TestUpdateBy_CustomKey(t *testing.T) {
	next := immutable.UpdateBy(seeded(), "name", immutable.Patch{"pets": map[string]any{"name": "Tom", "age": 10}})
	assert.Equal(t, 10, next.Pets[0].Age)
	assert.Equal(t, 5, next.Pets[1].Age)
}

func TestUpdateByID_MapElements(t *testing.T) {
	s := immutable.New[shelter]()
	orig := map[string]any{"id": "t1", "label": "old"}
	s.Tags = []map[string]any{orig, {"id": "t2", "label": "other"}}

	next := immutable.UpdateByID(s, immutable.Patch{"tags": map[string]any{"id": "t1", "label": "new"}})
	assert.Equal(t, "new", next.Tags[0]["label"])
	assert.Equal(t, "old", orig["label"], "element map is cloned before merging")
	assert.True(t, immutable.Same(s.Tags[1], next.Tags[1]))
}

func TestRemoveByID(t *testing.T) {
	s := seeded()
	next := immutable.RemoveByID(s, immutable.Patch{"pets": 1.0})
	require.Len(t, next.Pets, 1)
	assert.Equal(t, 2, next.Pets[0].ID)
	assert.Len(t, s.Pets, 2)

	untouched := immutable.RemoveByID(s, immutable.Patch{"pets": 99})
	assert.Equal(t, s.Pets, untouched.Pets)
}

func TestRemoveBy(t *testing.T) {
	next := immutable.RemoveBy(seeded(), "name", immutable.Patch{"pets": "Rex"})
	require.Len(t, next.Pets, 1)
	assert.Equal(t, "Tom", next.Pets[0].Name)
}

func TestUpdateAll(t *testing.T) {
	s := seeded()
	next := immutable.UpdateAll(s, immutable.Patch{"pets": func(p pet) pet {
		p.Age++
		return p
	}})
	assert.Equal(t, 4, next.Pets[0].Age)
	assert.Equal(t, 6, next.Pets[1].Age)
	assert.Equal(t, 3, s.Pets[0].Age)
}

func TestCopy(t *testing.T) {
	s := seeded()
	c := immutable.Copy(s)
	assert.Equal(t, s, c)
	c.Counter = 9
	assert.Equal(t, 0, s.Counter)
}

func TestFrom(t *testing.T) {
	s, err := immutable.From[shelter](map[string]any{
		"counter": 4.0,
		"items":   []any{"a"},
		"pets":    []any{map[string]any{"id": 3.0, "name": "Kit"}},
		"unknown": 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Counter)
	assert.Equal(t, []string{"a"}, s.Items)
	assert.Equal(t, []pet{{ID: 3, Name: "Kit"}}, s.Pets)
	assert.Empty(t, s.Tags)
}

func TestFrom_RejectsNonStruct(t *testing.T) {
	_, err := immutable.From[int](map[string]any{})
	assert.ErrorIs(t, err, domain.ErrAbstractSlice)
}

func TestSame(t *testing.T) {
	items := []string{"a"}
	m := map[string]int{"a": 1}
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"int vs float", 2, 2.0, true},
		{"different ints", 1, 2, false},
		{"same slice", items, items, true},
		{"equal content new slice", items, []string{"a"}, false},
		{"same map", m, m, true},
		{"different maps", m, map[string]int{"a": 1}, false},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"strings", "x", "x", true},
		{"structs", pet{ID: 1}, pet{ID: 1}, true},
		{"type mismatch", "1", 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, immutable.Same(tc.a, tc.b))
		})
	}
}

func TestKeysAndField(t *testing.T) {
	keys := immutable.Keys(immutable.TypeOf[shelter]())
	assert.Equal(t, []string{"counter", "open", "items", "pets", "tags"}, keys)

	v, ok := immutable.Field(seeded(), "items")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	_, ok = immutable.Field(seeded(), "note")
	assert.False(t, ok)
}
