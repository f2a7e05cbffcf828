// Package output provides matrix exports beyond the primary TSV format.
package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kshedden/gonpy"

	"github.com/inodb/oncomatrix/internal/matrix"
)

// WriteNpy exports a binary presence matrix as a NumPy .npy array of uint8,
// shape (samples, features), row-major. Row and column names are written to
// sidecar text files next to the array, one name per line, since the .npy
// format carries no labels.
func WriteNpy(m *matrix.Matrix, path string) error {
	ids := m.IDs()
	features := m.Features()

	data := make([]uint8, 0, len(ids)*len(features))
	for _, id := range ids {
		for _, f := range features {
			switch m.Get(id, f) {
			case "0", "":
				data = append(data, 0)
			default:
				data = append(data, 1)
			}
		}
	}

	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("create npy writer: %w", err)
	}
	w.Shape = []int{len(ids), len(features)}
	if err := w.WriteUint8(data); err != nil {
		return fmt.Errorf("write npy array: %w", err)
	}

	if err := writeNames(path+".rows.txt", ids); err != nil {
		return err
	}
	return writeNames(path+".cols.txt", features)
}

func writeNames(path string, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create name sidecar: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, n := range names {
		if _, err := bw.WriteString(n + "\n"); err != nil {
			return fmt.Errorf("write name sidecar: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush name sidecar: %w", err)
	}
	return nil
}
