package runtime_test

import (
	"reflect"
	"testing"

	"github.com/aretw0/oodux/internal/runtime"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID   int      `json:"id"`
	Data []string `json:"data"`
}

type products struct {
	Products []string `json:"products"`
	Data     []string `json:"data"`
}

func reducer(t *testing.T, name string, v any) *runtime.Reducer {
	t.Helper()
	s, err := schema.Describe(reflect.TypeOf(v))
	require.NoError(t, err)
	return runtime.NewReducer(name, runtime.Synthesize(s))
}

func TestReducer_Targets(t *testing.T) {
	r := reducer(t, "user", user{})

	next, handled, err := r.Reduce(user{}, domain.Action{Type: "setId", Data: 3, Target: "user"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 3, next.(user).ID)

	next, handled, err = r.Reduce(user{}, domain.Action{Type: "setId", Data: 3, Target: "products"})
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, user{}, next)

	_, handled, err = r.Reduce(user{}, domain.Action{Type: "setId", Data: 4})
	require.NoError(t, err)
	assert.True(t, handled, "untargeted actions reach every slice")
}

func TestCombined_ReducesEachKeyIndependently(t *testing.T) {
	c := runtime.Combine(reducer(t, "user", user{}), reducer(t, "products", products{}))
	assert.Equal(t, []string{"products", "user"}, c.Names())

	tree := c.Initial()
	require.Contains(t, tree, "user")
	require.Contains(t, tree, "products")

	next, handled, err := c.Reduce(tree, domain.Action{Type: "addToData", Data: "u", Target: "user"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"u"}, next["user"].(user).Data)
	assert.Empty(t, next["products"].(products).Data)
	assert.Empty(t, tree["user"].(user).Data, "input tree is untouched")

	next, handled, err = c.Reduce(next, domain.Action{Type: "addToProducts", Data: "p"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"p"}, next["products"].(products).Products)
}

func TestCombined_UnknownReturnsSameTree(t *testing.T) {
	c := runtime.Combine(reducer(t, "user", user{}))
	tree := c.Initial()

	next, handled, err := c.Reduce(tree, domain.Action{Type: "noop"})
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, reflect.ValueOf(tree).Pointer(), reflect.ValueOf(next).Pointer())
}

func TestCombined_ErrorDiscardsDispatch(t *testing.T) {
	c := runtime.Combine(reducer(t, "user", user{}), reducer(t, "products", products{}))
	tree := c.Initial()

	next, handled, err := c.Reduce(tree, domain.Action{Type: "setId", Data: "not a number"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.False(t, handled)
	assert.Equal(t, tree, next)
}

func TestCombine_DuplicateNamePanics(t *testing.T) {
	assert.PanicsWithError(t, `slice "user": duplicate slice name`, func() {
		runtime.Combine(reducer(t, "user", user{}), reducer(t, "user", products{}))
	})
}
