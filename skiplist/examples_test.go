package skiplist_test

import (
	"fmt"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/skiplist"
)

func ExampleList_Put() {
	m := skiplist.New[int, string](ordered.Natural[int]())
	_ = m.Put(1, "one")
	_ = m.Put(2, "two")
	fmt.Println(m.Len())
	// Output: 2
}

func ExampleList_Get() {
	m := skiplist.New[int, string](ordered.Natural[int]())
	_ = m.Put(1, "one")
	_ = m.Put(2, "two")
	val, ok := m.Get(1)
	fmt.Printf("%s %t\n", val, ok)
	// Output: one true
}

func ExampleList_Delete() {
	m := skiplist.New[int, string](ordered.Natural[int]())
	_ = m.Put(1, "one")
	_ = m.Put(2, "two")
	val, ok := m.Delete(1)
	fmt.Printf("%s %t\n", val, ok)
	fmt.Println(m.Len())
	// Output: one true
	// 1
}

func ExampleList_Iterator() {
	m := skiplist.New[int, string](ordered.Natural[int]())
	_ = m.Put(3, "three")
	_ = m.Put(1, "one")
	_ = m.Put(2, "two")
	it := m.Iterator()
	for it.Next() {
		fmt.Printf("%d:%s ", it.Key(), it.Value())
	}
	fmt.Println()
	// Output: 1:one 2:two 3:three
}

func ExampleList_SeekGE() {
	m := skiplist.New[int, string](ordered.Natural[int]())
	_ = m.Put(1, "one")
	_ = m.Put(3, "three")
	_ = m.Put(5, "five")
	it := m.SeekGE(2)
	for it.Valid() {
		fmt.Printf("%d:%s ", it.Key(), it.Value())
		it.Next()
	}
	fmt.Println()
	// Output: 3:three 5:five
}
