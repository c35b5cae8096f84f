package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/codeshape/pkg/textutil"
)

const stdinPath = "-"

var (
	// ErrDirectoryPath indicates a file operation was attempted on a directory.
	ErrDirectoryPath = errors.New("path points to a directory")
	// ErrEmptyPath indicates a path argument was empty.
	ErrEmptyPath = errors.New("path is empty")
	// ErrPathContainsNUL indicates the path contains a NUL byte.
	ErrPathContainsNUL = errors.New("path contains NUL byte")
	// ErrFileTooLarge indicates the input exceeds input.max_file_size.
	ErrFileTooLarge = errors.New("file too large")
	// ErrBinaryFile indicates the input is not text.
	ErrBinaryFile = errors.New("file looks binary")
	// ErrWriteStdin indicates --write was used with stdin input.
	ErrWriteStdin = errors.New("cannot write back to stdin")
)

// sourceFile is a module read from disk or stdin.
type sourceFile struct {
	// path is the resolved absolute path, or "-" for stdin.
	path string
	// name is the path as given, used in messages and diffs.
	name    string
	content []byte
	mode    os.FileMode
	bom     bool
}

func (src *sourceFile) fromStdin() bool {
	return src.path == stdinPath
}

// readSource reads path ("-" for stdin) within the configured size limit
// and rejects binary content.
func (state *app) readSource(stdin io.Reader, path string) (*sourceFile, error) {
	limit, err := state.cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	src := &sourceFile{path: stdinPath, name: "<stdin>", mode: 0o644}

	var reader io.Reader = stdin

	if path != stdinPath {
		resolved, info, resolveErr := resolveUserFilePath(path)
		if resolveErr != nil {
			return nil, fmt.Errorf("resolve path %q: %w", path, resolveErr)
		}

		if uint64(info.Size()) > limit { //nolint:gosec // sizes from Stat are non-negative.
			return nil, fmt.Errorf("%w: %s is %s, limit is %s", ErrFileTooLarge, path,
				humanize.Bytes(uint64(info.Size())), humanize.Bytes(limit)) //nolint:gosec // see above.
		}

		//nolint:gosec // resolved is normalized and type checked in resolveUserFilePath.
		file, openErr := os.Open(resolved)
		if openErr != nil {
			return nil, fmt.Errorf("open %s: %w", resolved, openErr)
		}

		defer file.Close()

		src = &sourceFile{path: resolved, name: path, mode: info.Mode().Perm()}
		reader = file
	}

	content, err := io.ReadAll(io.LimitReader(reader, int64(limit)+1)) //nolint:gosec // limit is a configured size.
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.name, err)
	}

	if uint64(len(content)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, src.name, humanize.Bytes(limit))
	}

	if textutil.IsBinary(content) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, src.name)
	}

	src.content, src.bom = textutil.TrimBOM(content)

	return src, nil
}

// writeSource replaces the file with code, keeping its mode and byte
// order mark.
func writeSource(src *sourceFile, code string) error {
	if src.fromStdin() {
		return ErrWriteStdin
	}

	data := []byte(code)
	if src.bom {
		data = textutil.WithBOM(data)
	}

	err := os.WriteFile(src.path, data, src.mode)
	if err != nil {
		return fmt.Errorf("write %s: %w", src.name, err)
	}

	return nil
}

func resolveUserFilePath(path string) (string, os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil, ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", nil, fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", nil, fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", absPath, err)
	}

	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s", ErrDirectoryPath, absPath)
	}

	return absPath, info, nil
}
