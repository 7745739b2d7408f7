// Package main provides the Lumen CLI.
package main

import (
	"fmt"
	"os"

	"github.com/lumen-ml/lumen/array"
	"github.com/lumen-ml/lumen/backend/cpu"
	"github.com/lumen-ml/lumen/interop"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Lumen %s\n", version)
			return
		case "demo":
			if err := demo(); err != nil {
				fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Lumen - lazy device arrays with tensor interop")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Round-trip a tensor through the interop layer")
}

// demo round-trips a (2,3,4) float32 tensor through import and export on
// the reference backend and reports the bulk-call counts.
func demo() error {
	backend := cpu.New()

	src, err := interop.NewDense(backend, interop.TagFloat32, []int{2, 3, 4})
	if err != nil {
		return err
	}
	defer src.Release()

	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	a, err := array.FromSlice(backend, data, array.Shape{2, 3, 4})
	if err != nil {
		return err
	}
	defer a.Release()

	if err := interop.ExportInto(backend, src, a, true); err != nil {
		return err
	}

	imported, err := interop.Import(backend, src, 3, array.Float32)
	if err != nil {
		return err
	}
	defer imported.Release()

	out, err := interop.ExportToTensor(backend, imported, true)
	if err != nil {
		return err
	}
	defer out.Release()

	values, err := array.ToSlice[float32](imported)
	if err != nil {
		return err
	}

	fmt.Printf("shape:          %v\n", out.Shape())
	fmt.Printf("first elements: %v\n", values[:8])
	fmt.Printf("bulk gathers:   %d\n", backend.GatherCalls())
	fmt.Printf("bulk scatters:  %d\n", backend.ScatterCalls())
	return nil
}
