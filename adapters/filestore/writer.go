// Package filestore persists generated datasets, metadata records and run
// manifests on the local filesystem.
package filestore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"polysynth/domain/dataset"
	"polysynth/domain/run"
	"polysynth/internal/errors"
	"polysynth/ports"

	"github.com/xuri/excelize/v2"
)

// Supported dataset formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const sheetName = "Sheet1"

// Writer implements ports.ArtifactRepository. Datasets go to
// {DatasetsDir}/{name}.{format}; metadata and manifests to MetadataDir.
type Writer struct {
	datasetsDir string
	metadataDir string
	format      string
}

var _ ports.ArtifactRepository = (*Writer)(nil)

// NewWriter creates a writer, creating both directories if needed
func NewWriter(datasetsDir, metadataDir, format string) (*Writer, error) {
	if format != FormatCSV && format != FormatXLSX {
		return nil, errors.ConfigInvalidf("unsupported dataset format %q", format)
	}
	for _, dir := range []string{datasetsDir, metadataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.IOError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	return &Writer{datasetsDir: datasetsDir, metadataDir: metadataDir, format: format}, nil
}

// DatasetPath returns where the dataset of the named variant is written
func (w *Writer) DatasetPath(name string) string {
	return filepath.Join(w.datasetsDir, name+"."+w.format)
}

// MetadataPath returns where the metadata record of the named variant is written
func (w *Writer) MetadataPath(name string) string {
	return filepath.Join(w.metadataDir, name+".json")
}

// ManifestPath returns where the manifest of a run is written
func (w *Writer) ManifestPath(m *run.Manifest) string {
	return filepath.Join(w.metadataDir, fmt.Sprintf("%s_%s_manifest.json", m.BaseName, m.ExecutionID))
}

// SaveVariant writes the dataset first and its metadata record second
func (w *Writer) SaveVariant(ctx context.Context, table *dataset.Table, metadata dataset.Metadata) (ports.StoredArtifact, error) {
	if err := ctx.Err(); err != nil {
		return ports.StoredArtifact{}, err
	}
	if err := metadata.Validate(); err != nil {
		return ports.StoredArtifact{}, errors.WithCode(errors.CodeInternalError, err)
	}

	stored := ports.StoredArtifact{
		DatasetPath:  w.DatasetPath(metadata.DatasetName),
		MetadataPath: w.MetadataPath(metadata.DatasetName),
	}

	var err error
	switch w.format {
	case FormatXLSX:
		err = atomicWrite(stored.DatasetPath, func(f io.Writer) error { return writeXLSX(f, table) })
	default:
		err = atomicWrite(stored.DatasetPath, func(f io.Writer) error { return writeCSV(f, table) })
	}
	if err != nil {
		return ports.StoredArtifact{}, errors.IOError(fmt.Sprintf("failed to write dataset %s", stored.DatasetPath), err)
	}

	if err := writeJSON(stored.MetadataPath, metadata); err != nil {
		return ports.StoredArtifact{}, err
	}
	return stored, nil
}

// SaveManifest writes the run manifest and returns its path
func (w *Writer) SaveManifest(ctx context.Context, manifest *run.Manifest) (string, error) {
	if err := manifest.Validate(); err != nil {
		return "", errors.WithCode(errors.CodeInternalError, err)
	}
	path := w.ManifestPath(manifest)
	if err := writeJSON(path, manifest); err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(out io.Writer, table *dataset.Table) error {
	w := csv.NewWriter(out)

	if err := w.Write(table.Names()); err != nil {
		return err
	}
	for row := 0; row < table.Rows(); row++ {
		if err := w.Write(table.Record(row)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(out io.Writer, table *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, table.Width())
	for i, name := range table.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	columns := table.Columns()
	for row := 0; row < table.Rows(); row++ {
		cells := make([]interface{}, len(columns))
		for i, c := range columns {
			switch c.Kind {
			case dataset.KindNumeric:
				cells[i] = c.Numeric[row]
			default:
				cells[i] = c.Cell(row)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(out)
	return err
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to encode %s", path), err)
	}
	data = append(data, '\n')

	err = atomicWrite(path, func(f io.Writer) error {
		_, err := f.Write(data)
		return err
	})
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// atomicWrite writes into a temporary file next to path and renames it into
// place, so a file carrying the final name is always complete.
func atomicWrite(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
