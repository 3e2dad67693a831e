// Package fingerprint computes a content digest over a dataset directory tree
//
// The digest covers the relative path and content of every regular, non hidden
// file whose base name matches one of the patterns. Files are hashed in
// parallel and combined in sorted path order, so traversal order and job count
// never change the result. Empty directories do not contribute.
package fingerprint

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// Algorithm names a hashing primitive
type Algorithm string

// Supported algorithms
const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

// Algorithms lists supported algorithm names
func Algorithms() []string { return []string{string(MD5), string(SHA256), string(XXHash)} }

// Options tunes a fingerprint pass
type Options struct {
	// Match holds base name glob patterns; empty means "*.gz"
	Match []string
	// Jobs bounds concurrent file hashing; <1 means runtime.NumCPU()
	Jobs int
	// Algorithm defaults to md5
	Algorithm Algorithm
}

func (o Options) normalized() Options {
	if len(o.Match) == 0 {
		o.Match = []string{"*.gz"}
	}
	if o.Jobs < 1 {
		o.Jobs = runtime.NumCPU()
	}
	if o.Algorithm == "" {
		o.Algorithm = MD5
	}
	return o
}

func newHash(a Algorithm) (func() hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New, nil
	case SHA256:
		return sha256.New, nil
	case XXHash:
		return func() hash.Hash { return xxhash.New() }, nil
	default:
		return nil, perr.Configf("unknown fingerprint algorithm %q", a)
	}
}

type entry struct {
	rel    string
	abs    string
	digest string
}

// Compute returns the hex digest of the dataset under root
func Compute(ctx context.Context, root string, opts Options) (string, error) {
	opts = opts.normalized()
	mk, err := newHash(opts.Algorithm)
	if err != nil {
		return "", err
	}
	for _, p := range opts.Match {
		if _, err := filepath.Match(p, ""); err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeConfig, "bad match pattern %q", p)
		}
	}

	fi, err := os.Stat(root)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeConfig, "dataset root %s", root)
	}
	if !fi.IsDir() {
		return "", perr.Configf("dataset root %s is not a directory", root)
	}

	files, err := collect(root, opts.Match)
	if err != nil {
		return "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := hashFile(files[i].abs, mk())
			if err != nil {
				return err
			}
			files[i].digest = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	h := mk()
	for _, f := range files {
		_, _ = io.WriteString(h, f.rel)
		_, _ = h.Write([]byte{0})
		_, _ = io.WriteString(h, f.digest)
		_, _ = h.Write([]byte{'\n'})
	}
	sum := hex.EncodeToString(h.Sum(nil))

	logger.Named("fingerprint").Debug().
		Str("root", root).
		Str("algo", string(opts.Algorithm)).
		Int("files", len(files)).
		Int("jobs", opts.Jobs).
		Str("fingerprint", sum).
		Msg("fingerprint computed")
	return sum, nil
}

// collect walks root and returns matching files sorted by relative path
// Symlinks are followed the same way unit discovery follows them
func collect(root string, match []string) ([]entry, error) {
	var out []entry
	if err := walk(root, "", match, map[string]bool{}, &out); err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b entry) int { return strings.Compare(a.rel, b.rel) })
	return out, nil
}

// walk descends dir; active holds the resolved directories on the current path so link cycles end
func walk(dir, rel string, match []string, active map[string]bool, out *[]entry) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfig, "resolve %s", dir)
	}
	if active[resolved] {
		return nil
	}
	active[resolved] = true
	defer delete(active, resolved)

	ents, err := os.ReadDir(dir)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfig, "walk %s", dir)
	}
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}
		switch t := EntryType(dir, e); {
		case t.IsDir():
			if err := walk(path, relPath, match, active, out); err != nil {
				return err
			}
		case t.IsRegular() && matches(name, match):
			*out = append(*out, entry{rel: relPath, abs: path})
		}
	}
	return nil
}

// EntryType returns the type of e inside dir with symlinks resolved
// A dangling or unreadable link reports fs.ModeSymlink and is neither a dir nor a regular file
func EntryType(dir string, e fs.DirEntry) fs.FileMode {
	t := e.Type()
	if t&fs.ModeSymlink == 0 {
		return t
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return t
	}
	return fi.Mode().Type()
}

func matches(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func hashFile(path string, h hash.Hash) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(h, f); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeIO, "hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
