package ordered_test

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/btree"
	"github.com/metailurini/ordered/rbtree"
	"github.com/metailurini/ordered/sortedset"
	"github.com/metailurini/ordered/treap"
	"github.com/metailurini/ordered/trie"
)

func ExampleReverse() {
	m := btree.New[int, string](ordered.Reverse(ordered.Natural[int]()))
	_ = m.Put(1, "one")
	_ = m.Put(3, "three")
	_ = m.Put(2, "two")
	for k, v := range m.All() {
		fmt.Printf("%d:%s ", k, v)
	}
	fmt.Println()
	// Output: 3:three 2:two 1:one
}

func ExampleNewBudget() {
	budget := ordered.NewBudget(96)
	s := sortedset.New[int64](ordered.Natural[int64](), sortedset.WithAllocator(budget))
	var err error
	for i := int64(0); err == nil; i++ {
		_, err = s.Add(i)
	}
	fmt.Println(s.Len(), errors.Is(err, ordered.ErrOutOfMemory))
	// Output: 8 true
}

func ExampleMap() {
	maps := map[string]ordered.Map[string, int]{
		"btree": btree.New[string, int](ordered.Natural[string]()),
		"treap": treap.New[string, int](ordered.Natural[string](), treap.WithSeed(7)),
	}
	for _, name := range []string{"btree", "treap"} {
		m := maps[name]
		_ = m.Put("b", 2)
		_ = m.Put("a", 1)
		_ = m.Put("b", 20)
		m.Delete("c")
		v, _ := m.Get("b")
		fmt.Println(name, m.Len(), v)
	}
	// Output:
	// btree 2 20
	// treap 2 20
}

func Example_rbtree() {
	t := rbtree.New[string](func(a, b string) bool { return a < b })
	for _, w := range []string{"pear", "apple", "fig"} {
		_, _ = t.Insert(w)
	}
	t.Remove("fig")
	for w := range t.All() {
		fmt.Print(w, " ")
	}
	fmt.Println(t.Len())
	// Output: apple pear 2
}

func Example_trie() {
	t := trie.New[int]()
	for i, w := range []string{"tea", "ten", "to", "inn"} {
		_ = t.Put([]byte(w), i)
	}
	for _, k := range t.KeysWithPrefix([]byte("te")) {
		fmt.Print(string(k), " ")
	}
	fmt.Println(t.HasPrefix([]byte("i")), t.HasPrefix([]byte("x")))
	// Output: tea ten true false
}
