// Package variables reads a Klipper save_variables store: a text file of
// "key = value" lines whose values are Python-style literals.
package variables

import (
	"bufio"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Variables maps keys to decoded values. Values that are not valid literals
// are kept as their raw trimmed text.
type Variables map[string]any

// File is a variables store on disk. Every Load reads the file again.
type File struct {
	filepath string
}

func NewFile(path string) *File {
	return &File{filepath: path}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.filepath
}

// Load reads and parses the store. A file that does not exist yields empty
// variables.
func (f *File) Load() (Variables, error) {
	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("path", f.filepath).Debug("variables file does not exist")
			return Variables{}, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to open variables file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	vars, err := Parse(fp)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read variables file %s", f.filepath)
	}

	return vars, nil
}

// Parse reads "key = value" lines. Lines starting with '#', section headers
// such as "[Variables]" and lines without '=' are skipped. The line is split
// at the first '='. Later keys overwrite earlier ones.
func Parse(r io.Reader) (Variables, error) {
	vars := Variables{}

	scanner := bufio.NewScanner(r)
	// Mesh histories are stored on a single line and easily exceed the
	// default 64KiB token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, raw, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)

		v, err := ParseValue(raw)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"key":  key,
				"line": lineNo,
			}).Debugf("keeping raw string value: %v", err)
			vars[key] = raw
			continue
		}
		vars[key] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return vars, nil
}
