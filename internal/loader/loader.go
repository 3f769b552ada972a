// Package loader handles ROM file loading operations.
package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/retroenv/retrochip8/internal/memory"
)

var (
	// ErrEmptyROM is returned for a ROM without content.
	ErrEmptyROM = errors.New("ROM is empty")

	// ErrEmptyArchive is returned for an archive that contains no file.
	ErrEmptyArchive = errors.New("archive contains no file")
)

// romExtensions are preferred when picking a file out of an archive.
var romExtensions = []string{".ch8", ".c8", ".rom"}

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a ROM file. Files with a .7z, .zip or .gz extension are
// decompressed, for multi file archives the first file with a ROM extension
// is used, otherwise the first file.
func (l *Loader) Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".7z":
		data, err = extract7z(data)
	case ".zip":
		data, err = extractZip(data)
	case ".gz":
		data, err = decompressGzip(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filename, err)
	}

	return l.LoadFromBytes(data)
}

// LoadFromBytes validates that the ROM fits into the program area.
func (l *Loader) LoadFromBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyROM
	}
	if len(data) > memory.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d",
			memory.ErrProgramTooLarge, len(data), memory.MaxProgramSize)
	}
	return data, nil
}

// archiveFile is an entry of a 7z or zip archive.
type archiveFile interface {
	Open() (io.ReadCloser, error)
}

func extract7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening 7z archive: %w", err)
	}

	names := make([]string, 0, len(r.File))
	files := make([]archiveFile, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
		files = append(files, f)
	}
	return readArchiveFile(names, files)
}

func extractZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}

	names := make([]string, 0, len(r.File))
	files := make([]archiveFile, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
		files = append(files, f)
	}
	return readArchiveFile(names, files)
}

func readArchiveFile(names []string, files []archiveFile) ([]byte, error) {
	if len(files) == 0 {
		return nil, ErrEmptyArchive
	}

	index := selectROM(names)
	rc, err := files[index].Open()
	if err != nil {
		return nil, fmt.Errorf("opening archive file %s: %w", names[index], err)
	}
	defer func() { _ = rc.Close() }()

	// reading one byte more than fits detects oversized ROMs without
	// decompressing all of it
	data, err := io.ReadAll(io.LimitReader(rc, memory.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading archive file %s: %w", names[index], err)
	}
	return data, nil
}

// selectROM returns the index of the first name with a ROM extension or 0.
func selectROM(names []string) int {
	for i, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		for _, romExt := range romExtensions {
			if ext == romExt {
				return i
			}
		}
	}
	return 0
}

func decompressGzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer func() { _ = r.Close() }()

	data, err = io.ReadAll(io.LimitReader(r, memory.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("decompressing gzip stream: %w", err)
	}
	return data, nil
}
