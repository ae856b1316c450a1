// Package corpus loads the on-disk knowledge base into memory.
//
// The knowledge base is a directory of .txt files, optionally grouped one
// level deep by category:
//
//	<root>/wiki_menu_data/Curios/Crate.txt
//	<root>/wiki_menu_data/Overview.txt
//
// Nothing is cached; every Load reads the directory again.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"ddadvisor/internal/domain"
)

const (
	DefaultSubdir  = "wiki_menu_data"
	DefaultPattern = "**/*.txt"
)

// Corpus is an ordered, read-only collection of documents keyed by ID.
type Corpus struct {
	dataDir string
	docs    []domain.Document
	index   map[string]int
}

type options struct {
	subdir  string
	pattern string
	logger  *zap.Logger
}

// Option customises Load.
type Option func(*options)

// WithSubdir overrides the knowledge-base sub-directory under the root.
func WithSubdir(subdir string) Option {
	return func(o *options) {
		if subdir != "" {
			o.subdir = subdir
		}
	}
}

// WithPattern overrides the doublestar glob matched against relative paths.
func WithPattern(pattern string) Option {
	return func(o *options) {
		if pattern != "" {
			o.pattern = pattern
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Load reads every matching document below root/<subdir>. A missing
// sub-directory yields an empty corpus, not an error.
func Load(root string, opts ...Option) (*Corpus, error) {
	o := options{subdir: DefaultSubdir, pattern: DefaultPattern, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if !doublestar.ValidatePattern(o.pattern) {
		return nil, fmt.Errorf("invalid corpus pattern %q", o.pattern)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}
	dataDir := Canonical(filepath.Join(absRoot, o.subdir))
	c := &Corpus{dataDir: dataDir, index: map[string]int{}}

	info, err := os.Stat(dataDir)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		o.logger.Debug("corpus directory missing", zap.String("dir", dataDir))
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat corpus directory: %w", err)
	}

	err = filepath.WalkDir(dataDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			o.logger.Warn("skipping unreadable path", zap.String("path", p), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dataDir, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(o.pattern, rel); !ok {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			o.logger.Warn("failed to read document", zap.String("path", rel), zap.Error(err))
			return nil
		}
		c.add(domain.Document{
			ID:       Canonical(p),
			Name:     path.Join(filepath.ToSlash(o.subdir), rel),
			Content:  decode(data),
			Metadata: metadataFor(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	o.logger.Debug("corpus loaded", zap.String("dir", dataDir), zap.Int("documents", len(c.docs)))
	return c, nil
}

func (c *Corpus) add(doc domain.Document) {
	if i, ok := c.index[doc.ID]; ok {
		c.docs[i] = doc
		return
	}
	c.index[doc.ID] = len(c.docs)
	c.docs = append(c.docs, doc)
}

// Dir returns the canonical knowledge-base directory.
func (c *Corpus) Dir() string { return c.dataDir }

func (c *Corpus) Len() int { return len(c.docs) }

// Items enumerates (ID, content) pairs in load order. Metadata is left zero.
func (c *Corpus) Items() []domain.Document {
	out := make([]domain.Document, len(c.docs))
	for i, d := range c.docs {
		out[i] = domain.Document{ID: d.ID, Name: d.Name, Content: d.Content}
	}
	return out
}

// Documents enumerates documents with their metadata in load order.
func (c *Corpus) Documents() []domain.Document {
	out := make([]domain.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Lookup finds a document by canonical ID.
func (c *Corpus) Lookup(id string) (domain.Document, bool) {
	i, ok := c.index[Canonical(id)]
	if !ok {
		return domain.Document{}, false
	}
	return c.docs[i], true
}

// Canonical returns the absolute, symlink-resolved form of p, or the
// cleaned absolute path when resolution fails.
func Canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func metadataFor(rel string) domain.Metadata {
	parts := strings.Split(rel, "/")
	category := ""
	if len(parts) > 1 {
		category = parts[0]
	}
	base := path.Base(rel)
	return domain.Metadata{
		Title:        strings.TrimSuffix(base, path.Ext(base)),
		Category:     category,
		RelativePath: rel,
	}
}

// decode drops invalid UTF-8 sequences instead of failing.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}
