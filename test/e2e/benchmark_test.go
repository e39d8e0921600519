package e2e_test

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// generateUniformArray creates an array of objects that all share the same
// fields, the shape inference handles fastest.
func generateUniformArray(size int) []map[string]interface{} {
	array := make([]map[string]interface{}, size)
	for i := 0; i < size; i++ {
		array[i] = map[string]interface{}{
			"id":       i,
			"name":     fmt.Sprintf("Item %d", i),
			"value":    rand.Float64() * 100,
			"active":   i%2 == 0,
			"category": fmt.Sprintf("Category %d", i%5),
		}
	}
	return array
}

// generateSparseArray creates an array where each optional field appears in
// roughly half the objects, forcing the full presence-counting path.
func generateSparseArray(size, optionalFields int) []map[string]interface{} {
	array := make([]map[string]interface{}, size)
	for i := 0; i < size; i++ {
		obj := map[string]interface{}{
			"id":   i,
			"name": fmt.Sprintf("Item %d", i),
		}
		for f := 0; f < optionalFields; f++ {
			if (i+f)%2 == 0 {
				obj[fmt.Sprintf("opt_%d", f)] = fmt.Sprintf("value_%d", f)
			}
		}
		array[i] = obj
	}
	return array
}

// generateWideArray creates an array of objects with many fields at the same
// level, mixing every value type the inference distinguishes.
func generateWideArray(size, fieldCount int) []map[string]interface{} {
	array := make([]map[string]interface{}, size)
	for i := 0; i < size; i++ {
		obj := make(map[string]interface{}, fieldCount)
		for f := 0; f < fieldCount; f++ {
			switch f % 5 {
			case 0:
				obj[fmt.Sprintf("string_field_%d", f)] = fmt.Sprintf("value_%d", f)
			case 1:
				obj[fmt.Sprintf("int_field_%d", f)] = f
			case 2:
				obj[fmt.Sprintf("bool_field_%d", f)] = f%2 == 0
			case 3:
				obj[fmt.Sprintf("float_field_%d", f)] = float64(f) + 0.5
			case 4:
				obj[fmt.Sprintf("object_field_%d", f)] = map[string]interface{}{
					"id":   f,
					"name": fmt.Sprintf("Object %d", f),
				}
			}
		}
		array[i] = obj
	}
	return array
}

func writeBenchDoc(b *testing.B, dir, name string, data interface{}) string {
	b.Helper()
	jsonData, err := json.Marshal(data)
	require.NoError(b, err)
	path := filepath.Join(dir, name)
	require.NoError(b, os.WriteFile(path, jsonData, 0644))
	return path
}

// BenchmarkInferArraySizes benchmarks template inference over growing
// uniform arrays.
func BenchmarkInferArraySizes(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir, err := os.MkdirTemp("", "jsonshape-bench-sizes")
	require.NoError(b, err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing directory: %v\n", err)
		}
	}()

	sizes := []struct {
		name      string
		arraySize int
	}{
		{"Array100", 100},
		{"Array1000", 1000},
		{"Array5000", 5000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			jsonFile := writeBenchDoc(b, tempDir, fmt.Sprintf("%s.json", size.name), generateUniformArray(size.arraySize))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cmd := exec.Command("go", "run", "../../main.go", "infer", jsonFile)
				output, err := cmd.CombinedOutput()
				require.NoError(b, err, "CLI command failed: %s", string(output))
			}
		})
	}
}

// BenchmarkInferSparseFields benchmarks inference when optional fields force
// per-field presence counting across the whole sample.
func BenchmarkInferSparseFields(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir, err := os.MkdirTemp("", "jsonshape-bench-sparse")
	require.NoError(b, err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing directory: %v\n", err)
		}
	}()

	shapes := []struct {
		name           string
		arraySize      int
		optionalFields int
	}{
		{"Size500Optional5", 500, 5},
		{"Size500Optional25", 500, 25},
		{"Size2000Optional10", 2000, 10},
	}

	for _, shape := range shapes {
		b.Run(shape.name, func(b *testing.B) {
			jsonFile := writeBenchDoc(b, tempDir, fmt.Sprintf("%s.json", shape.name), generateSparseArray(shape.arraySize, shape.optionalFields))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cmd := exec.Command("go", "run", "../../main.go", "infer", jsonFile)
				output, err := cmd.CombinedOutput()
				require.NoError(b, err, "CLI command failed: %s", string(output))
			}
		})
	}
}

// BenchmarkValidateWideObjects benchmarks the full infer-then-validate
// pipeline over objects with many fields.
func BenchmarkValidateWideObjects(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir, err := os.MkdirTemp("", "jsonshape-bench-wide")
	require.NoError(b, err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing directory: %v\n", err)
		}
	}()

	widths := []struct {
		name       string
		fieldCount int
	}{
		{"Fields10", 10},
		{"Fields50", 50},
		{"Fields100", 100},
		{"Fields500", 500},
	}

	for _, width := range widths {
		b.Run(width.name, func(b *testing.B) {
			jsonFile := writeBenchDoc(b, tempDir, fmt.Sprintf("%s.json", width.name), generateWideArray(50, width.fieldCount))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cmd := exec.Command("go", "run", "../../main.go", "validate", jsonFile)
				output, err := cmd.CombinedOutput()
				require.NoError(b, err, "CLI command failed: %s", string(output))
			}
		})
	}
}
