package source

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"

	"strand/internal/rcstr"
)

// FileSet owns the buffers of loaded files. Token texts and diagnostics
// refer to them by Span; adopted handles borrow them directly, so a FileSet
// must outlive every handle taken from File.Text and be Closed last.
type FileSet struct {
	files   []File
	baseDir string
	mapped  [][]byte // mappings to release on Close
}

func NewFileSet() *FileSet { return &FileSet{} }

// NewFileSetWithBase creates a FileSet whose relative paths are formatted
// against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

// BaseDir returns the base directory, defaulting to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a copy of already normalized bytes and returns a new FileID,
// even when path was added before. The copy gets a NUL sentinel, a line
// index and a SHA-256 digest; the caller keeps ownership of content.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	return fileSet.adopt(path, terminatedCopy(content), flags)
}

// adopt stores content without copying it when a NUL already follows it.
// Only buffers the FileSet owns (read or mapped files) may come here.
func (fileSet *FileSet) adopt(path string, content []byte, flags FileFlags) FileID {
	content = withSentinel(content)
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", normalizedPath, err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.adopt(path, content, flags), nil
}

// LoadMapped maps the file read-only instead of copying it into the Go heap.
// Files that need BOM/CRLF normalization, files whose size leaves no room
// for the NUL sentinel in the last page, and platforms without mmap fall
// back to Load.
func (fileSet *FileSet) LoadMapped(path string) (FileID, error) {
	data, ok, err := mapFile(path)
	if err != nil {
		return 0, fmt.Errorf("map %s: %w", path, err)
	}
	if !ok {
		return fileSet.Load(path)
	}
	content := data[: len(data)-1 : len(data)]
	if hasBOM(content) || bytes.IndexByte(content, '\r') >= 0 {
		if err := unmapFile(data); err != nil {
			return 0, fmt.Errorf("unmap %s: %w", path, err)
		}
		return fileSet.Load(path)
	}
	fileSet.mapped = append(fileSet.mapped, data)
	return fileSet.adopt(path, content, FileMapped), nil
}

// Close releases memory mappings. Handles borrowed from mapped files must
// not be used afterwards.
func (fileSet *FileSet) Close() error {
	var errs []error
	for _, data := range fileSet.mapped {
		if err := unmapFile(data); err != nil {
			errs = append(errs, err)
		}
	}
	fileSet.mapped = nil
	return errors.Join(errs...)
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of stored files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text borrows the whole file buffer as a NUL-terminated string. It does not
// allocate; the handle is valid as long as the FileSet keeps the file (and,
// for mapped files, until Close).
func (f *File) Text() rcstr.String {
	return rcstr.AdoptBytes(f.Content[:len(f.Content)+1])
}

// Slice returns the bytes covered by span.
func (f *File) Slice(span Span) []byte {
	return f.Content[span.Start:span.End]
}

// LineBounds returns the byte range of line (1-based) without its newline.
func (f *File) LineBounds(line uint32) (start, end uint32, ok bool) {
	if line == 0 || int(line) > len(f.LineIdx)+1 {
		return 0, 0, false
	}
	if line > 1 {
		start = f.LineIdx[line-2] + 1
	}
	end = uint32(len(f.Content))
	if int(line) <= len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return start, end, true
}

// GetLine returns line (1-based) without its newline, or "" if the line
// does not exist.
func (f *File) GetLine(line uint32) string {
	start, end, ok := f.LineBounds(line)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath formats the file path for display.
// mode: "absolute", "relative", "basename", "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
