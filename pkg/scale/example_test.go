package scale_test

import (
	"fmt"

	"github.com/matzehuels/animchart/pkg/scale"
)

func ExampleNewBand() {
	b := scale.NewBand([]string{"north", "south"}, 0, 300, 0.5, 0, false)
	for _, k := range b.Keys() {
		x, _ := b.MapKey(k)
		fmt.Printf("%s at %g\n", k, x)
	}
	fmt.Println("bandwidth", b.Bandwidth())
	// Output:
	// north at 0
	// south at 200
	// bandwidth 100
}

func ExampleNewLinear() {
	// y axes map the domain onto a reversed range so larger values are
	// drawn higher.
	y := scale.NewLinear(0, 100, 200, 0)
	fmt.Println(y.MapFloat(0), y.MapFloat(25), y.MapFloat(100))
	// Output: 200 150 0
}
