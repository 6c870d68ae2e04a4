package rewrite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
	"github.com/aiknowsys/aiknowsys/internal/tracker"
)

// ErrDocumentNotFound is the cause of the error returned when the document
// to rewrite does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Applied is the outcome of Rewriter.Apply. Until Rollback is called it
// remembers every path the rewrite created and the document's original
// bytes.
type Applied struct {
	*Result

	track    *tracker.FileTracker
	docPath  string
	original []byte
}

// CreatedFiles returns the pattern files the rewrite created.
func (a *Applied) CreatedFiles() []string { return a.track.Files() }

// CreatedDirs returns the directories the rewrite created.
func (a *Applied) CreatedDirs() []string { return a.track.Dirs() }

// Rollback undoes a successful Apply for a caller whose own later step
// failed. The document is restored first; only then are the created pattern
// files removed, so the extracted content always exists somewhere. If the
// document cannot be restored nothing is removed.
func (a *Applied) Rollback(log tracker.Logger) error {
	if len(a.Files) > 0 {
		if err := tracker.ReplaceFile(a.docPath, a.original); err != nil {
			return output.NewSystemErrorWithCause("failed to restore "+a.docPath, err)
		}
	}
	return a.track.Rollback(log)
}

// Rewriter applies extractions to files under a project root.
type Rewriter struct {
	root        string
	patternsDir string
	log         tracker.Logger
}

// NewRewriter creates a Rewriter for the project at root. patternsDir is
// relative to root; empty means the default docs/patterns. log receives
// rollback reports and may be nil.
func NewRewriter(root, patternsDir string, log tracker.Logger) *Rewriter {
	return &Rewriter{root: root, patternsDir: patternsDir, log: log}
}

// PatternsPath returns the absolute extraction directory.
func (r *Rewriter) PatternsPath() string {
	return filepath.Join(r.root, filepath.FromSlash(Options{PatternsDir: r.patternsDir}.patternsDir()))
}

// Preview computes what Apply would do without touching the filesystem.
// Slugs already taken by files on disk are skipped, as in Apply.
func (r *Rewriter) Preview(docPath string, doc *markdown.Document, indexes []int) (*Result, error) {
	abs := r.abs(docPath)
	if err := checkDocument(abs); err != nil {
		return nil, err
	}
	return Extract(doc, indexes, r.options(abs))
}

// Apply extracts the sections at indexes from the document at docPath,
// writes one file per section into the patterns directory and writes the
// shortened document back in place.
//
// doc must be the parse of docPath's current content. Existing pattern
// files are never overwritten. If any step fails, every file and
// directory created so far is removed before the error is returned, and
// the document is left as it was.
func (r *Rewriter) Apply(docPath string, doc *markdown.Document, indexes []int) (*Applied, error) {
	abs := r.abs(docPath)
	if err := checkDocument(abs); err != nil {
		return nil, err
	}

	result, err := Extract(doc, indexes, r.options(abs))
	if err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}

	original, err := os.ReadFile(abs)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read "+docPath, err)
	}

	track := tracker.New()
	fail := func(message string, cause error) (*Applied, error) {
		_ = track.Rollback(r.log)
		return nil, output.NewSystemErrorWithCause(message+": "+cause.Error(), cause)
	}

	if len(result.Files) > 0 {
		if err := track.MkdirAll(r.PatternsPath(), 0o755); err != nil {
			return fail("failed to create patterns directory", err)
		}
	}

	for _, f := range result.Files {
		target := filepath.Join(r.root, filepath.FromSlash(f.Path))
		if err := track.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return fail(fmt.Sprintf("failed to extract section %q to %s", f.Section, f.Path), err)
		}
	}

	if len(result.Files) > 0 {
		if err := tracker.ReplaceFile(abs, []byte(result.Document)); err != nil {
			return fail("failed to write "+docPath, err)
		}
	}

	return &Applied{Result: result, track: track, docPath: abs, original: original}, nil
}

// ExtractSection moves the single section named name out of the document,
// whatever its length. Ordinal prefixes and case are ignored when matching.
func (r *Rewriter) ExtractSection(docPath string, doc *markdown.Document, name string) (*Applied, error) {
	if err := checkDocument(r.abs(docPath)); err != nil {
		return nil, err
	}
	i := doc.Find(name)
	if i < 0 {
		return nil, output.NewUserError(fmt.Sprintf("section %q not found in %s", name, docPath))
	}
	return r.Apply(docPath, doc, []int{i})
}

func (r *Rewriter) options(absDoc string) Options {
	opts := Options{PatternsDir: r.patternsDir}
	if absDoc != "" {
		if rel, err := filepath.Rel(r.root, filepath.Dir(absDoc)); err == nil {
			opts.DocumentDir = filepath.ToSlash(rel)
		}
	}
	opts.Reserved = patterns.Taken(r.root, opts.patternsDir())
	return opts
}

func (r *Rewriter) abs(docPath string) string {
	if filepath.IsAbs(docPath) {
		return docPath
	}
	return filepath.Join(r.root, docPath)
}

// ReadDocument reads and parses the document at path. A missing document
// is a user error whose cause is ErrDocumentNotFound.
func ReadDocument(path string) (*markdown.Document, error) {
	if err := checkDocument(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read "+path, err)
	}
	return markdown.Parse(string(data)), nil
}

// checkDocument returns a not-found user error if path is missing.
func checkDocument(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return output.NewUserErrorWithCause("document not found: "+path, ErrDocumentNotFound)
	case err != nil:
		return output.NewSystemErrorWithCause("failed to read "+path, err)
	case info.IsDir():
		return output.NewUserErrorWithCause("not a file: "+path, ErrDocumentNotFound)
	}
	return nil
}

