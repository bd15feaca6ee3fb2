package apidiff

import (
	"encoding/json"
	"fmt"
	"io"
)

// ModuleDiff lists the methods a module gained between the two versions.
type ModuleDiff struct {
	Module string   `json:"module"`
	Added  []Method `json:"added"`
}

// Report is the outcome of comparing two module sets. Only modules that
// gained at least one method appear in it.
type Report struct {
	Modules []ModuleDiff `json:"modules"`
}

// Diff reports methods present in newer but absent by name in older.
//
// The comparison is scoped to modules that exist in older: modules only
// present in newer contribute nothing, since the report answers "what is
// new relative to the older version". An older module without a newer
// counterpart is skipped with a warning rather than failing the run.
// logf may be nil.
func Diff(older, newer ModuleSet, logf func(format string, args ...any)) Report {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// First match by name wins.
	index := make(map[string]*Module, len(newer))
	for i := range newer {
		if _, ok := index[newer[i].Name]; !ok {
			index[newer[i].Name] = &newer[i]
		}
	}

	var report Report
	for _, old := range older {
		counterpart, ok := index[old.Name]
		if !ok {
			logf("module %s has no counterpart in the newer version, skipping", old.Name)
			continue
		}

		known := make(map[string]struct{}, len(old.Methods))
		for _, m := range old.Methods {
			known[m.Name] = struct{}{}
		}

		var added []Method
		for _, m := range counterpart.Methods {
			if _, seen := known[m.Name]; !seen {
				added = append(added, m)
			}
		}
		if len(added) > 0 {
			report.Modules = append(report.Modules, ModuleDiff{Module: old.Name, Added: added})
		}
	}
	return report
}

// Empty reports whether the diff found no new methods at all.
func (r Report) Empty() bool { return len(r.Modules) == 0 }

// WriteText renders the report in its line-oriented form: one header per
// module followed by one line per new method.
//
//	fs                       2 new
//	- glob: Promise
//	- openAsBlob: null
func (r Report) WriteText(w io.Writer) error {
	for _, m := range r.Modules {
		if _, err := fmt.Fprintf(w, "%-24s %d new\n", m.Module, len(m.Added)); err != nil {
			return err
		}
		for _, meth := range m.Added {
			if _, err := fmt.Fprintf(w, "- %s: %s\n", meth.Name, returnTypeLabel(meth)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON renders the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// returnTypeLabel is the printable return type, with an explicit marker for
// methods that declared none.
func returnTypeLabel(m Method) string {
	if m.ReturnType == nil {
		return "null"
	}
	return *m.ReturnType
}
