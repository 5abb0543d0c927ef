// Package fileio reads and writes the YAML files handled by the command.
package fileio

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	goencoding "github.com/mattn/go-encoding"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/quwac/yamlfix/errors"
)

// Stdin is the path that stands for the standard input.
const Stdin = "-"

const maxWriteRetries = 3

// File is a decoded text file.
type File struct {
	Path string
	Text string
	Mode fs.FileMode

	enc encoding.Encoding
}

// Read reads the file at path. charset names the encoding of the file;
// when it is empty the file is read as UTF-8 unless it starts with a
// UTF-16 byte order mark.
func Read(path, charset string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	f, err := Decode(path, b, charset)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil {
		f.Mode = info.Mode().Perm()
	}
	return f, nil
}

// ReadFrom reads all of r as a file named name.
func ReadFrom(r io.Reader, name, charset string) (*File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return Decode(name, b, charset)
}

// Decode decodes b with charset, see Read.
func Decode(name string, b []byte, charset string) (*File, error) {
	enc, err := lookup(charset, b)
	if err != nil {
		return nil, err
	}
	f := &File{Path: name, Mode: 0o644, enc: enc}
	if enc == nil {
		f.Text = string(bytes.TrimPrefix(b, utf8BOM))
		return f, nil
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), b)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", name)
	}
	f.Text = string(text)
	return f, nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// lookup returns the encoding named charset, or the one announced by the
// byte order mark of b. It returns nil for UTF-8.
func lookup(charset string, b []byte) (encoding.Encoding, error) {
	if charset != "" {
		enc := goencoding.GetEncoding(charset)
		if enc == nil {
			return nil, errors.Errorf("unknown encoding %q", charset)
		}
		if enc == unicode.UTF8 {
			return nil, nil
		}
		return enc, nil
	}
	switch {
	case bytes.HasPrefix(b, []byte{0xfe, 0xff}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case bytes.HasPrefix(b, []byte{0xff, 0xfe}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}
	return nil, nil
}

// Encode encodes text in the encoding f was read with.
func (f *File) Encode(text string) ([]byte, error) {
	if f.enc == nil {
		return []byte(text), nil
	}
	b, _, err := transform.Bytes(f.enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", f.Path)
	}
	return b, nil
}

// Write writes text to the file in its original encoding. Transient
// failures are retried with exponential backoff.
func (f *File) Write(ctx context.Context, logger *zap.Logger, text string) error {
	b, err := f.Encode(text)
	if err != nil {
		return err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxWriteRetries), ctx)
	err = backoff.RetryNotify(func() error {
		err := os.WriteFile(f.Path, b, f.Mode)
		if os.IsNotExist(err) || os.IsPermission(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, d time.Duration) {
		logger.Warn("retry writing file", zap.String("path", f.Path), zap.Duration("after", d), zap.Error(err))
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", f.Path)
	}
	return nil
}

// Collect expands paths into the YAML files to handle. Directories are
// walked for files with the .yaml or .yml extension. Files and
// directories matching an exclude pattern are skipped; a pattern is
// matched against the path and against the base name.
func Collect(paths, exclude []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, path := range paths {
		if path == Stdin {
			add(path)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to find %s", path)
		}
		if excluded(path, exclude) {
			continue
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != path && excluded(p, exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && IsYAML(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", path)
		}
	}
	return files, nil
}

// IsYAML reports whether path has a YAML file extension.
func IsYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func excluded(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
