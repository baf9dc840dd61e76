// Package iolib provides I/O functions beyond goLang primitives
package iolib

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

/***************************************************************************************************************
****************************************************************************************************************
* I/O functions ************************************************************************************************
****************************************************************************************************************
****************************************************************************************************************/

// ErrPathInvalid is returned when a target name cannot be mapped to a file
var ErrPathInvalid = errors.New("path invalid")

// FileExists returns true if there is a file w/ that name
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileAtomic writes data into filename through a temporary file in the
// same directory, renamed over the destination once flushed. Readers never
// observe a half written file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	if strings.TrimSpace(filename) == "" {
		return ErrPathInvalid
	}
	dir := filepath.Dir(filename)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(filename)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if _, err = bw.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, filename)
}

// Lines2file saves each line followed by a newline into a file
func Lines2file(lines []string, filename string) error {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return WriteFileAtomic(filename, []byte(sb.String()), 0644)
}
