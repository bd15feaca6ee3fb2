package apidiff

// RawModule is one node of the upstream documentation tree, as delivered by
// the per-module JSON endpoint. The same shape serves both as the outer
// document (which wraps exactly one real module in Modules) and as nested
// submodule entries.
//
// Distinguishing an absent list from an empty one matters for the top-level
// contract, so the slices are left as nil when the field is missing.
type RawModule struct {
	Name    string      `json:"name"`
	TextRaw string      `json:"textRaw"`
	Methods []RawMethod `json:"methods"`
	Classes []RawClass  `json:"classes"`
	Modules []RawModule `json:"modules"`
}

// RawMethod is an upstream method descriptor. Signatures is expected to
// contain exactly one element; anything else means the upstream schema has
// drifted and the run must not produce a diff from it.
type RawMethod struct {
	Name       string         `json:"name"`
	TextRaw    string         `json:"textRaw"`
	Signatures []RawSignature `json:"signatures"`
}

// RawSignature is one signature variant of a method descriptor.
type RawSignature struct {
	Return *RawReturn `json:"return"`
}

// RawReturn is the declared return of a signature.
type RawReturn struct {
	Type string `json:"type"`
}

// RawClass is an upstream class descriptor.
type RawClass struct {
	Name    string      `json:"name"`
	TextRaw string      `json:"textRaw"`
	Methods []RawMethod `json:"methods"`
}

// Method is a normalized method record.
// ReturnType is nil when no return type was declared upstream.
type Method struct {
	Name       string  `json:"name"`
	Signature  string  `json:"signature"`
	ReturnType *string `json:"returnType"`
}

// Class is a normalized class record. Classes without methods are dropped
// during normalization, so Methods is never empty.
type Class struct {
	Name    string   `json:"name"`
	Methods []Method `json:"methods"`
}

// Module is the flat, normalized record for one top-level module.
// Methods and Classes are the union of the module's directly declared
// members and the flattened members of all its descendants, own members
// first, then descendants' in descendant-list order.
type Module struct {
	Name    string   `json:"name"`
	Methods []Method `json:"methods"`
	Classes []Class  `json:"classes"`
}

// ModuleSet is the ordered collection of normalized top-level modules for
// one release line, the unit of comparison between versions.
type ModuleSet []Module
