package meshid_test

import (
	"fmt"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/field"
)

func Example() {
	m := meshid.New(meshid.WithName("node"))
	_ = m.SetSize(4)

	// Segments may arrive in any order.
	_ = m.SetMap([]int64{103, 104}, 2, true)
	_ = m.SetMap([]int64{101, 102}, 0, true)

	base, _ := m.Base()
	local, _ := m.GlobalToLocal(103)
	fmt.Println(m.IsSequential(false), base, local)

	// Output: true 100 3
}

func ExampleMap_MapData() {
	m := meshid.New()
	_ = m.SetSize(3)
	_ = m.SetMap([]int64{30, 10, 20}, 0, true)

	ids := field.New("ids", field.Int64, field.Mesh, 3)

	buf := []int64{1, 2, 3}
	_ = m.MapData(buf, ids, len(buf))
	fmt.Println(buf)

	_ = m.ReverseMapData(buf, ids, len(buf))
	fmt.Println(buf)

	// Output:
	// [30 10 20]
	// [1 2 3]
}
