package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleStore_Get() {
	store := New(DefaultCapacity)
	store.Append("ls")
	store.Append("pwd")
	store.Append("echo hi")

	line, _ := store.Get(2)
	fmt.Println(line)

	_, err := store.Get(4)
	fmt.Println(err)

	last, _ := store.Last()
	fmt.Println(last)

	// Output: pwd
	// history number out of bounds
	// echo hi
}

func TestStore_Bound(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 45} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			store := New(DefaultCapacity)
			var all []string
			for i := 0; i < n; i++ {
				line := fmt.Sprintf("echo %d", i)
				all = append(all, line)
				store.Append(line)
			}

			want := all
			if len(want) > DefaultCapacity {
				want = want[len(want)-DefaultCapacity:]
			}
			if want == nil {
				want = []string{}
			}

			assert.Equal(t, want, store.List())
			assert.Equal(t, len(want), store.Len())
		})
	}
}

func TestStore_Get(t *testing.T) {
	store := New(DefaultCapacity)
	store.Append("ls")
	store.Append("pwd")
	store.Append("echo hi")

	cases := []struct {
		index   int
		want    string
		wantErr error
	}{
		{index: 1, want: "ls"},
		{index: 2, want: "pwd"},
		{index: 3, want: "echo hi"},
		{index: 0, wantErr: ErrOutOfBounds},
		{index: -1, wantErr: ErrOutOfBounds},
		{index: 4, wantErr: ErrOutOfBounds},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.index), func(t *testing.T) {
			got, err := store.Get(tc.index)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStore_GetAfterEviction(t *testing.T) {
	store := New(3)
	for _, line := range []string{"a", "b", "c", "d"} {
		store.Append(line)
	}

	first, err := store.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, "b", first)

	_, err = store.Get(4)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestStore_Last(t *testing.T) {
	store := New(DefaultCapacity)

	_, err := store.Last()
	assert.ErrorIs(t, err, ErrEmpty)

	store.Append("ls")
	store.Append("echo hi")

	last, err := store.Last()
	assert.NoError(t, err)
	assert.Equal(t, "echo hi", last)
}

func TestStore_LoadKeepsNewest(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("cmd %d", i))
	}

	store := New(DefaultCapacity)
	store.Load(lines)

	assert.Equal(t, lines[10:], store.List())
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	original := New(DefaultCapacity)
	for _, line := range []string{"ls", "cd /tmp", "echo a b c"} {
		original.Append(line)
	}

	restored := New(DefaultCapacity)
	restored.Load(original.Save())

	assert.Equal(t, original.List(), restored.List())
}
