// Package apidiff normalizes upstream documentation trees into flat module
// records and diffs them across release lines.
//
// Normalization recursively flattens a module's own and nested members into
// one record per top-level module. Diffing compares two normalized module
// sets by name and reports methods present in the newer set but absent from
// the older one.
package apidiff

import (
	"context"
	"encoding/json"
	"sync"

	"nodediff/pkg/errors"
)

// Fetcher retrieves the raw JSON document for a module by name.
// Implementations typically sit in front of an HTTP client and a disk cache.
type Fetcher interface {
	FetchModule(ctx context.Context, name string) ([]byte, error)
}

// Normalizer flattens raw documentation trees into Module records.
type Normalizer struct {
	fetcher Fetcher
	logf    func(format string, args ...any)
}

// NewNormalizer creates a Normalizer that uses fetcher to resolve submodule
// entries that carry a name but no inline descriptor. logf receives warnings
// about skipped descendants; pass nil to discard them.
func NewNormalizer(fetcher Fetcher, logf func(format string, args ...any)) *Normalizer {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Normalizer{fetcher: fetcher, logf: logf}
}

// BuildSet fetches and normalizes each named module in order, dropping
// modules whose shape is unsupported. Fetch failures and schema violations
// abort the whole set.
func (n *Normalizer) BuildSet(ctx context.Context, names []string) (ModuleSet, error) {
	if n.fetcher == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no fetcher configured")
	}
	set := make(ModuleSet, 0, len(names))
	for _, name := range names {
		raw, err := n.fetcher.FetchModule(ctx, name)
		if err != nil {
			return nil, err
		}
		var doc RawModule
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "module %s: malformed document", name)
		}
		mod, err := n.Normalize(ctx, &doc)
		if err != nil {
			return nil, err
		}
		if mod == nil {
			n.logf("skipping %s: unsupported module shape", name)
			continue
		}
		set = append(set, *mod)
	}
	return set, nil
}

// Normalize flattens one top-level raw document into a Module.
//
// A document without a modules list describes something other than a regular
// module (addon pages, for instance); Normalize returns (nil, nil) for those
// and the caller excludes them from the set. A document whose modules list
// does not contain exactly one entry violates the expected outer shape and
// is fatal. This cardinality check applies only here, not to recursive
// descendant expansion.
func (n *Normalizer) Normalize(ctx context.Context, doc *RawModule) (*Module, error) {
	if doc.Modules == nil {
		return nil, nil
	}
	if len(doc.Modules) != 1 {
		return nil, errors.New(errors.ErrCodeSchema,
			"document for %q wraps %d modules, want 1", doc.Name, len(doc.Modules))
	}

	root := &doc.Modules[0]
	methods, classes, err := n.expand(ctx, root)
	if err != nil {
		return nil, err
	}
	return &Module{Name: root.Name, Methods: methods, Classes: classes}, nil
}

// expand collects node's own members and the flattened members of all its
// descendants. Own members come first, then each descendant's contribution
// in descendant-list order.
//
// Descendants are expanded concurrently since they are independent reads;
// results are reassembled in order. A failing descendant contributes
// nothing, except for schema violations which stay fatal for the whole run.
func (n *Normalizer) expand(ctx context.Context, node *RawModule) ([]Method, []Class, error) {
	methods := make([]Method, 0, len(node.Methods))
	for _, raw := range node.Methods {
		m, err := normalizeMethod(raw)
		if err != nil {
			return nil, nil, err
		}
		methods = append(methods, m)
	}

	classes := make([]Class, 0, len(node.Classes))
	for _, raw := range node.Classes {
		// Classes without methods carry no comparable surface and are
		// dropped silently.
		if len(raw.Methods) == 0 {
			continue
		}
		c := Class{Name: raw.Name, Methods: make([]Method, 0, len(raw.Methods))}
		for _, rm := range raw.Methods {
			m, err := normalizeMethod(rm)
			if err != nil {
				return nil, nil, err
			}
			c.Methods = append(c.Methods, m)
		}
		classes = append(classes, c)
	}

	type contribution struct {
		methods []Method
		classes []Class
		err     error
	}

	results := make([]contribution, len(node.Modules))
	var wg sync.WaitGroup
	for i := range node.Modules {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ms, cs, err := n.expandChild(ctx, &node.Modules[i])
			results[i] = contribution{methods: ms, classes: cs, err: err}
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res.err != nil {
			if errors.Is(res.err, errors.ErrCodeSchema) {
				return nil, nil, res.err
			}
			n.logf("skipping submodule %s of %s: %v", node.Modules[i].Name, node.Name, res.err)
			continue
		}
		methods = append(methods, res.methods...)
		classes = append(classes, res.classes...)
	}

	return methods, classes, nil
}

// expandChild expands one submodule entry. Entries that carry only a name
// reference a separately documented module; those are fetched by name and
// expanded from the fetched document.
func (n *Normalizer) expandChild(ctx context.Context, child *RawModule) ([]Method, []Class, error) {
	if !isStub(child) {
		return n.expand(ctx, child)
	}
	if n.fetcher == nil {
		return nil, nil, errors.New(errors.ErrCodeInternal, "no fetcher for submodule %s", child.Name)
	}
	raw, err := n.fetcher.FetchModule(ctx, child.Name)
	if err != nil {
		return nil, nil, err
	}
	var doc RawModule
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Not a schema code: a corrupt document for one submodule degrades
		// to an empty contribution instead of aborting the run.
		return nil, nil, errors.Wrap(errors.ErrCodeUnsupported, err, "submodule %s: malformed document", child.Name)
	}
	return n.expand(ctx, &doc)
}

// isStub reports whether a submodule entry carries a name but no inline
// descriptor, meaning its content lives in a separate document.
func isStub(node *RawModule) bool {
	return node.Name != "" &&
		node.Methods == nil && node.Classes == nil && node.Modules == nil
}

// normalizeMethod converts one raw method descriptor. Exactly one signature
// element is required: silently picking one of several would produce a
// misleading diff, so the run fails loudly instead.
func normalizeMethod(raw RawMethod) (Method, error) {
	if len(raw.Signatures) != 1 {
		return Method{}, errors.New(errors.ErrCodeSchema,
			"method %q has %d signatures, want 1", raw.Name, len(raw.Signatures))
	}
	m := Method{Name: raw.Name, Signature: raw.TextRaw}
	if ret := raw.Signatures[0].Return; ret != nil {
		m.ReturnType = &ret.Type
	}
	return m, nil
}
