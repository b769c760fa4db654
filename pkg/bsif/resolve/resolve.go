// Package resolve loads a root document's transitive references into a
// ResolvedDocument DAG, with cycle detection and version-compatibility
// checks.
package resolve

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
	"github.com/ormasoftchile/bsif/pkg/bsif/validate"
)

// FileSystem is the resolver's only I/O seam: callers can substitute an
// in-memory filesystem for tests without the resolver knowing the
// difference.
type FileSystem interface {
	Open(path string) (io.ReadCloser, error)
}

type osFS struct{}

func (osFS) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

// Options bounds resolution depth and fanout, protecting against
// adversarial reference graphs.
type Options struct {
	MaxDepth   int
	MaxFanout  int
	FileSystem FileSystem
}

func DefaultOptions() Options {
	return Options{MaxDepth: 10, MaxFanout: 32, FileSystem: osFS{}}
}

// ResolvedDocument is a document plus its immediate references, forming a
// DAG rooted at the document originally requested.
type ResolvedDocument struct {
	*schema.Document
	Path       string
	References map[string]*ResolvedDocument
}

// Resolver owns one resolution call's in-flight state: the active-path
// stack (for cycle detection) and the memo of fully resolved nodes (so a
// diamond-shaped reference graph shares, rather than re-loads, a
// sub-DAG).
type Resolver struct {
	opts   Options
	active map[string]bool
	memo   map[string]*ResolvedDocument
}

func New(opts Options) *Resolver {
	if opts.FileSystem == nil {
		opts.FileSystem = osFS{}
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = 10
	}
	if opts.MaxFanout == 0 {
		opts.MaxFanout = 32
	}
	return &Resolver{opts: opts, active: map[string]bool{}, memo: map[string]*ResolvedDocument{}}
}

// Resolve loads rootPath and its transitive references.
func (r *Resolver) Resolve(rootPath string) (*ResolvedDocument, diag.List) {
	canon, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, diag.List{diag.Errorf(diag.CodeUnresolvedReference, nil, "canonicalize %q: %v", rootPath, err)}
	}
	return r.resolveAt(canon, nil, 0)
}

func (r *Resolver) resolveAt(canon string, rootMeta *schema.Metadata, depth int) (*ResolvedDocument, diag.List) {
	if depth > r.opts.MaxDepth {
		return nil, diag.List{diag.Errorf(diag.CodeResolutionLimit, nil, "reference depth exceeds maximum of %d at %s", r.opts.MaxDepth, canon)}
	}
	if r.active[canon] {
		return nil, diag.List{diag.Errorf(diag.CodeCircularReference, nil, "circular reference detected at %s", canon)}
	}
	if cached, ok := r.memo[canon]; ok {
		return cached, nil
	}

	doc, errs := r.load(canon)
	if errs.HasErrors() {
		return nil, errs
	}

	if rootMeta == nil {
		rootMeta = &doc.Metadata
	} else if majorVersion(rootMeta.BSIFVersion) != majorVersion(doc.Metadata.BSIFVersion) {
		return nil, diag.List{diag.Errorf(diag.CodeIncompatibleVersion, nil, "version major mismatch: root is %q, %s is %q", rootMeta.BSIFVersion, canon, doc.Metadata.BSIFVersion)}
	}

	if len(doc.References) > r.opts.MaxFanout {
		return nil, diag.List{diag.Errorf(diag.CodeResolutionLimit, nil, "reference fanout %d exceeds maximum of %d at %s", len(doc.References), r.opts.MaxFanout, canon)}
	}

	r.active[canon] = true
	defer delete(r.active, canon)

	// Unlike the decoder, resolution accumulates: every broken reference
	// of this document is reported, not just the first.
	var allErrs diag.List
	resolved := &ResolvedDocument{Document: doc, Path: canon, References: map[string]*ResolvedDocument{}}
	baseDir := filepath.Dir(canon)
	for name, ref := range doc.References {
		refPath, err := filepath.Abs(filepath.Join(baseDir, ref.Path))
		if err != nil {
			allErrs = append(allErrs, diag.Errorf(diag.CodeUnresolvedReference, []string{"references", name}, "canonicalize %q: %v", ref.Path, err))
			continue
		}
		child, childErrs := r.resolveAt(refPath, rootMeta, depth+1)
		if childErrs.HasErrors() {
			allErrs = append(allErrs, childErrs...)
			continue
		}
		if ref.Version != "" && majorVersion(ref.Version) != majorVersion(child.Metadata.BSIFVersion) {
			allErrs = append(allErrs, diag.Errorf(diag.CodeIncompatibleVersion, []string{"references", name}, "reference %q requires major version %s, found %q", name, majorVersion(ref.Version), child.Metadata.BSIFVersion))
			continue
		}
		resolved.References[name] = child
	}
	if allErrs.HasErrors() {
		return nil, allErrs
	}

	r.memo[canon] = resolved
	return resolved, nil
}

func (r *Resolver) load(path string) (*schema.Document, diag.List) {
	f, err := r.opts.FileSystem.Open(path)
	if err != nil {
		return nil, diag.List{diag.Errorf(diag.CodeUnresolvedReference, nil, "open %s: %v", path, err)}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, diag.List{diag.Errorf(diag.CodeUnresolvedReference, nil, "read %s: %v", path, err)}
	}

	doc, sm, errs := schema.Decode(data, path, schema.DefaultLimits())
	if errs.HasErrors() {
		return nil, errs
	}
	if semErrs := validate.Validate(doc); semErrs.HasErrors() {
		sm.Annotate(semErrs)
		return nil, semErrs
	}
	return doc, nil
}

func majorVersion(v string) string {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) == 0 {
		return v
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return v
	}
	return parts[0]
}
