package mgetlib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputFile resolves the user's requested output path against the
// server-reported filename, owns the resume Context sitting beside it,
// and is the only thing in the package allowed to touch the file on
// disk.
type OutputFile struct {
	console Console

	filename string
	dir      string
	fullpath string

	context *Context
	file    *os.File
}

// openOutputFile resolves userPath (empty, a directory, or a full file
// path) against serverFilename, then opens the resulting file according
// to whether a resume Context already exists for it.
func openOutputFile(serverFilename, userPath string, console Console) (*OutputFile, error) {
	of := &OutputFile{console: console}

	switch {
	case userPath == "":
		of.filename = serverFilename
		of.fullpath = serverFilename
	default:
		if fi, err := os.Stat(userPath); err == nil && fi.IsDir() {
			of.filename = serverFilename
			of.dir = userPath
			of.fullpath = filepath.Join(userPath, serverFilename)
		} else {
			of.filename = filepath.Base(userPath)
			of.dir = filepath.Dir(userPath)
			of.fullpath = userPath
			if err := of.ensureDirs(); err != nil {
				return nil, err
			}
		}
	}

	of.context = loadContext(of.fullpath)
	f, err := of.open()
	if err != nil {
		return nil, err
	}
	of.file = f
	return of, nil
}

// ensureDirs walks each missing path component of of.dir, asking
// confirmation before creating it — mirrors a user typing a path to a
// directory tree that doesn't exist yet.
func (of *OutputFile) ensureDirs() error {
	if of.dir == "" || of.dir == "." {
		return nil
	}
	if fi, err := os.Stat(of.dir); err == nil {
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s is a file, not a directory", ErrFileError, of.dir)
		}
		return nil
	}

	built := ""
	if filepath.IsAbs(of.dir) {
		built = string(filepath.Separator)
	}
	for _, part := range strings.Split(filepath.ToSlash(of.dir), "/") {
		if part == "" {
			continue
		}
		built = filepath.Join(built, part)
		fi, err := os.Stat(built)
		if err == nil {
			if !fi.IsDir() {
				return fmt.Errorf("%w: %s is a file, not a directory", ErrFileError, built)
			}
			continue
		}
		if !of.console.Ask(fmt.Sprintf("directory %s does not exist, create it?", built), true) {
			return ErrCancelled
		}
		if err := os.Mkdir(built, DefaultDirMode); err != nil {
			return fmt.Errorf("%w: cannot create directory %s: %v", ErrFileError, built, err)
		}
	}
	return nil
}

// open implements the resume/overwrite decision tree: a clean context
// means a first session, needing an overwrite prompt if the file already
// exists; a non-clean context means resuming, needing the original file
// to still be there to seek into.
func (of *OutputFile) open() (*os.File, error) {
	if of.context.Clean {
		if _, err := os.Stat(of.fullpath); err == nil {
			if !of.console.Ask(fmt.Sprintf("%s already exists, overwrite it?", of.fullpath), false) {
				return nil, ErrCancelled
			}
		}
		f, err := os.OpenFile(of.fullpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, DefaultFileMode)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot create %s: %v", ErrFileError, of.fullpath, err)
		}
		return f, nil
	}

	f, err := os.OpenFile(of.fullpath, os.O_RDWR, DefaultFileMode)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: cannot open %s: %v", ErrFileError, of.fullpath, err)
		}
		if !of.console.Ask(fmt.Sprintf("resume data for %s found but the file is missing, start over?", of.fullpath), true) {
			return nil, ErrCancelled
		}
		if err := of.context.reset(); err != nil {
			return nil, err
		}
		return of.open()
	}
	return f, nil
}

// Preallocate checks free disk space and grows the file to size by
// writing a single zero byte at its last offset, mirroring what the
// Manager does the first time a mirror reports a file size.
func (of *OutputFile) Preallocate(size ContentLength) error {
	dir := of.dir
	if dir == "" {
		dir = "."
	}
	if err := checkDiskSpace(dir, size.v()); err != nil {
		return err
	}
	if err := of.Seek(size.v() - 1); err != nil {
		return err
	}
	return of.Write([]byte{0})
}

// Seek moves the write pointer to offset bytes from the start of file.
func (of *OutputFile) Seek(offset int64) error {
	if _, err := of.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek in %s: %v", ErrFileError, of.filename, err)
	}
	return nil
}

// Write writes data at the current write pointer.
func (of *OutputFile) Write(data []byte) error {
	if _, err := of.file.Write(data); err != nil {
		return fmt.Errorf("%w: write to %s: %v", ErrFileError, of.filename, err)
	}
	return nil
}

// Close closes the underlying file handle.
func (of *OutputFile) Close() error {
	return of.file.Close()
}
