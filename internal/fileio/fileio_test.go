package fileio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func TestDecode(t *testing.T) {
	utf16le, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), []byte("a: b\n"))
	if err != nil {
		t.Fatal(err)
	}
	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte("name: 太郎\n"))
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string]struct {
		in      []byte
		charset string
		expect  string
	}{
		"utf-8": {
			in:     []byte("a: b\n"),
			expect: "a: b\n",
		},
		"utf-8 with BOM": {
			in:     append([]byte{0xef, 0xbb, 0xbf}, "a: b\n"...),
			expect: "a: b\n",
		},
		"utf-16 with BOM": {
			in:     utf16le,
			expect: "a: b\n",
		},
		"shift_jis": {
			in:      sjis,
			charset: "shift_jis",
			expect:  "name: 太郎\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := Decode("test.yaml", test.in, test.charset)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(test.expect, f.Text); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
			b, err := f.Encode(f.Text)
			if err != nil {
				t.Fatalf("failed to encode: %s", err)
			}
			if test.charset != "" || len(test.in) > 0 && test.in[0] != 0xef {
				if diff := cmp.Diff(test.in, b); diff != "" {
					t.Errorf("round trip differs (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := Decode("test.yaml", []byte("a: b\n"), "no-such-charset")
	if err == nil {
		t.Fatal("no error")
	}
	if !strings.Contains(err.Error(), "unknown encoding") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yaml")
	if err := os.WriteFile(path, []byte("a: b"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Read(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write(context.Background(), nil, "---\na: b\n"); err != nil {
		t.Fatalf("failed to write: %s", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("---\na: b\n", string(b)); diff != "" {
		t.Errorf("differs (-want +got):\n%s", diff)
	}

	missing := &File{Path: filepath.Join(t.TempDir(), "no", "such", "dir.yaml"), Mode: 0o644}
	if err := missing.Write(context.Background(), nil, "a: b\n"); err == nil {
		t.Fatal("no error")
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"a.yaml",
		"b.yml",
		"c.txt",
		filepath.Join("sub", "d.yaml"),
		filepath.Join("vendor", "e.yaml"),
	} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("a: b\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := map[string]struct {
		paths   []string
		exclude []string
		expect  []string
	}{
		"directory": {
			paths: []string{dir},
			expect: []string{
				filepath.Join(dir, "a.yaml"),
				filepath.Join(dir, "b.yml"),
				filepath.Join(dir, "sub", "d.yaml"),
				filepath.Join(dir, "vendor", "e.yaml"),
			},
		},
		"exclude": {
			paths:   []string{dir},
			exclude: []string{"vendor", "*.yml"},
			expect: []string{
				filepath.Join(dir, "a.yaml"),
				filepath.Join(dir, "sub", "d.yaml"),
			},
		},
		"files and stdin": {
			paths: []string{filepath.Join(dir, "c.txt"), "-", filepath.Join(dir, "c.txt")},
			expect: []string{
				filepath.Join(dir, "c.txt"),
				"-",
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Collect(test.paths, test.exclude)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(test.expect, got); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Collect([]string{filepath.Join(dir, "missing")}, nil); err == nil {
		t.Fatal("no error")
	}
}
