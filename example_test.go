package nngrid_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/nngrid"
)

// Example demonstrates nearest-neighbour selection on a regular grid.
func Example() {
	lon := nngrid.Vector(0, 1, 2, 3)
	lat := nngrid.Vector(0, 1, 2)

	field, err := nngrid.Matrix(4, 3, []float64{
		0, 1, 2,
		10, 11, 12,
		20, 21, 22,
		30, 31, 32,
	})
	if err != nil {
		log.Fatal(err)
	}

	f, err := nngrid.NearestNeighbour(lon, lat, nngrid.Vector(1.2, 2.9), nngrid.Vector(0.1, 1.8))
	if err != nil {
		log.Fatal(err)
	}

	out, err := f.Apply(field)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(out.Dims(), out.Values())
	// Output: [cell] [10 32]
}

// Example_mean averages the two nearest points of an unstructured grid for
// every time step.
func Example_mean() {
	lon := nngrid.Vector(0, 1, 2, 3, 4)
	lat := nngrid.Vector(0, 0, 0, 0, 0)

	f, err := nngrid.NearestNeighbour(lon, lat, nngrid.Vector(0.2, 3.4), nngrid.Vector(0, 0),
		nngrid.WithInputTopology(nngrid.TopologyUnstructured),
		nngrid.WithNeighbours(2),
	)
	if err != nil {
		log.Fatal(err)
	}

	data, err := nngrid.NewDataArray(
		[]float64{1, 2, 3, 4, 5, 10, 20, 30, 40, 50},
		[]int{2, 5},
		[]string{"time", "point"},
		nil, nil,
	)
	if err != nil {
		log.Fatal(err)
	}

	out, err := f.Apply(data)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(out.Dims(), out.Shape(), out.Values())
	// Output: [time cell] [2 2] [1.5 4.5 15 45]
}

// Example_regularOutput interpolates onto a regular target grid.
func Example_regularOutput() {
	lon := nngrid.Vector(0, 10, 20)
	lat := nngrid.Vector(0, 10)

	f, err := nngrid.NearestNeighbour(lon, lat, nngrid.Vector(4, 16), nngrid.Vector(1, 4, 9),
		nngrid.WithOutputTopology(nngrid.TopologyRegular),
	)
	if err != nil {
		log.Fatal(err)
	}

	field, err := nngrid.Matrix(3, 2, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		log.Fatal(err)
	}

	out, err := f.Apply(field)
	if err != nil {
		log.Fatal(err)
	}

	gridType, _ := out.Attr(nngrid.AttrGridType)
	fmt.Println(out.Dims(), out.Shape(), gridType)
	fmt.Println(out.Values())
	// Output:
	// [lon lat] [2 3] regular_ll
	// [1 1 2 5 5 6]
}

// Example_metrics demonstrates collecting build and apply metrics.
func Example_metrics() {
	metrics := &nngrid.BasicMetricsCollector{}

	f, err := nngrid.NearestNeighbour(nngrid.Vector(0, 1), nngrid.Vector(0, 1), nngrid.Vector(0.4), nngrid.Vector(0.6),
		nngrid.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	field, err := nngrid.Matrix(2, 2, []float64{1, 2, 3, 4})
	if err != nil {
		log.Fatal(err)
	}
	if _, err := f.Apply(field); err != nil {
		log.Fatal(err)
	}

	stats := metrics.GetStats()
	fmt.Println(stats.BuildCount, stats.ApplyCount, stats.ApplyValues)
	// Output: 1 1 1
}
