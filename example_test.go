package sparsecdf_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/sparsecdf"
	"github.com/hupe1980/sparsecdf/blobstore"
	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/layout"
	"github.com/hupe1980/sparsecdf/tensor"
)

func Example() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	adjacency := &tensor.Tensor{
		Format: layout.CSR,
		Shape:  []int{4, 4},
		Type:   dtype.Float64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RolePointers0: tensor.Of([]uint64{0, 2, 2, 3, 6}),
			layout.RoleIndices1:  tensor.Of([]uint64{0, 1, 2, 0, 1, 3}),
			layout.RoleValues:    tensor.Of([]float64{1, 2, 3, 4, 5, 6}),
		},
	}

	w, err := sparsecdf.Create(ctx, store, "graph.scdf")
	if err != nil {
		log.Fatal(err)
	}

	if err := w.Write(adjacency); err != nil {
		log.Fatal(err)
	}

	if err := w.Close(); err != nil {
		log.Fatal(err)
	}

	r, err := sparsecdf.Open(ctx, store, "graph.scdf")
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	got, err := r.Read()
	if err != nil {
		log.Fatal(err)
	}

	nvals, err := got.NVals()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(got.Format, got.Shape, nvals)
	// Output:
	// CSR [4 4] 6
}

func ExampleReader_Info() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := sparsecdf.Create(ctx, store, "graph.scdf")
	if err != nil {
		log.Fatal(err)
	}

	adjacency := &tensor.Tensor{
		Format: layout.COOR,
		Shape:  []int{3, 4},
		Type:   dtype.Int64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RoleRows:   tensor.Of([]uint64{0, 1, 2}),
			layout.RoleCols:   tensor.Of([]uint64{3, 0, 2}),
			layout.RoleValues: tensor.Of([]int64{7, 8, 9}),
		},
	}

	if err := w.Write(adjacency, sparsecdf.WithComment("toy graph")); err != nil {
		log.Fatal(err)
	}

	degrees := &tensor.Tensor{
		Format: layout.VEC,
		Shape:  []int{3},
		Type:   dtype.Int64,
		Arrays: map[layout.Role]tensor.Array{
			layout.RoleIndices0: tensor.Of([]uint64{0, 1, 2}),
			layout.RoleValues:   tensor.Of([]int64{1, 1, 1}),
		},
	}

	if err := w.Write(degrees, sparsecdf.WithName("row_degrees")); err != nil {
		log.Fatal(err)
	}

	if err := w.Close(); err != nil {
		log.Fatal(err)
	}

	r, err := sparsecdf.Open(ctx, store, "graph.scdf")
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	info, err := r.Info()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(info.Primary.Format, info.Primary.Comment)

	names, err := r.Names()
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range names {
		fmt.Println(name, info.Secondary[name].Format)
	}
	// Output:
	// COOR toy graph
	// row_degrees VEC
}
