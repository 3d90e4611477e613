// Package index decodes rustdoc search-index payloads into a normalized,
// immutable item model and resolves simple paths against it.
//
// Three payload generations are supported. V1 is a restricted JavaScript
// program with alias variables and a shared string table, V2 encodes each
// item as a positional tuple, and V3 spreads item fields over parallel
// columns. All three normalize into the same Crate/Item shape so nothing
// downstream needs generation-specific logic.
package index

import "fmt"

// ItemKind identifies the kind of a documented item. The numeric values
// match the kind codes used on disk by rustdoc, so conversion from a raw
// code is a bounds check away.
type ItemKind uint8

const (
	KindModule ItemKind = iota
	KindExternCrate
	KindImport
	KindStruct
	KindEnum
	KindFunction
	KindTypedef
	KindStatic
	KindTrait
	KindImpl
	KindTyMethod
	KindMethod
	KindStructField
	KindVariant
	KindMacro
	KindPrimitive
	KindAssocType
	KindConstant
	KindAssocConst
	KindUnion
	KindForeignType
	KindKeyword
	KindOpaqueTy
	KindProcAttribute
	KindProcDerive
	KindTraitAlias

	// KindProcMacro is not part of the on-disk code space above; it is
	// assigned to function-like procedural macros when a payload reports
	// them distinctly from declarative macros.
	KindProcMacro
)

// maxKindCode is the highest kind code any supported generation emits.
const maxKindCode = int(KindTraitAlias)

// kindFromCode converts a raw on-disk kind code. Unknown codes are a decode
// failure, never silently dropped.
func kindFromCode(code int) (ItemKind, bool) {
	if code < 0 || code > maxKindCode {
		return 0, false
	}
	return ItemKind(code), true
}

// Tag returns the short tag rustdoc uses for this kind in page file names
// and anchors, e.g. "struct" in "struct.Error.html" or "method" in
// "#method.new".
func (k ItemKind) Tag() string {
	switch k {
	case KindModule:
		return "mod"
	case KindExternCrate:
		return "externcrate"
	case KindImport:
		return "import"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "fn"
	case KindTypedef:
		return "type"
	case KindStatic:
		return "static"
	case KindTrait:
		return "trait"
	case KindImpl:
		return "impl"
	case KindTyMethod:
		return "tymethod"
	case KindMethod:
		return "method"
	case KindStructField:
		return "structfield"
	case KindVariant:
		return "variant"
	case KindMacro, KindProcMacro:
		return "macro"
	case KindPrimitive:
		return "primitive"
	case KindAssocType:
		return "associatedtype"
	case KindConstant:
		return "constant"
	case KindAssocConst:
		return "associatedconstant"
	case KindUnion:
		return "union"
	case KindForeignType:
		return "foreigntype"
	case KindKeyword:
		return "keyword"
	case KindOpaqueTy:
		return "opaque"
	case KindProcAttribute:
		return "attr"
	case KindProcDerive:
		return "derive"
	case KindTraitAlias:
		return "traitalias"
	}
	return "unknown"
}

func (k ItemKind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindExternCrate:
		return "ExternCrate"
	case KindImport:
		return "Import"
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindFunction:
		return "Function"
	case KindTypedef:
		return "Typedef"
	case KindStatic:
		return "Static"
	case KindTrait:
		return "Trait"
	case KindImpl:
		return "Impl"
	case KindTyMethod:
		return "TyMethod"
	case KindMethod:
		return "Method"
	case KindStructField:
		return "StructField"
	case KindVariant:
		return "Variant"
	case KindMacro:
		return "Macro"
	case KindPrimitive:
		return "Primitive"
	case KindAssocType:
		return "AssocType"
	case KindConstant:
		return "Constant"
	case KindAssocConst:
		return "AssocConst"
	case KindUnion:
		return "Union"
	case KindForeignType:
		return "ForeignType"
	case KindKeyword:
		return "Keyword"
	case KindOpaqueTy:
		return "OpaqueTy"
	case KindProcAttribute:
		return "ProcAttribute"
	case KindProcDerive:
		return "ProcDerive"
	case KindTraitAlias:
		return "TraitAlias"
	case KindProcMacro:
		return "ProcMacro"
	}
	return fmt.Sprintf("ItemKind(%d)", uint8(k))
}

// ParentRef links an associated item (such as a method) to its owner. The
// owner is either another item in the same crate (SelfRef) or an entry in
// the paths table for an owner that is not documented in this payload
// (ForeignRef), e.g. a trait implemented on a stdlib type.
type ParentRef struct {
	kind parentRefKind
	idx  int
}

type parentRefKind uint8

const (
	parentNone parentRefKind = iota
	parentSelf
	parentForeign
)

// NoParent is the zero ParentRef.
func NoParent() ParentRef { return ParentRef{} }

// SelfRef references index i of the crate's own item list.
func SelfRef(i int) ParentRef { return ParentRef{kind: parentSelf, idx: i} }

// ForeignRef references index i of the crate's paths table.
func ForeignRef(i int) ParentRef { return ParentRef{kind: parentForeign, idx: i} }

func (p ParentRef) IsNone() bool { return p.kind == parentNone }

// Self reports the item-list index when the reference is local.
func (p ParentRef) Self() (int, bool) { return p.idx, p.kind == parentSelf }

// Foreign reports the paths-table index when the owner is not a documented
// item in this payload.
func (p ParentRef) Foreign() (int, bool) { return p.idx, p.kind == parentForeign }

// Item is a single documented entity. Values are immutable once the decode
// that produced them returns.
type Item struct {
	Kind ItemKind
	Name string
	// ModulePath is the ::-joined path of the containing module, starting
	// with the crate name. It does not include the item name or, for
	// associated items, the owner name.
	ModulePath string
	// Desc is a short, one line description. It may contain HTML tags and
	// is likely truncated; it is carried opaquely and never interpreted.
	Desc   string
	Parent ParentRef
}

// PathEntry names an entity referenced as the parent of an item but not
// necessarily documented as a first-class item in this crate.
type PathEntry struct {
	Kind ItemKind
	Name string
}

// Index holds the decoded items of one crate. Both lists preserve decode
// order; parent references address them positionally.
type Index struct {
	Items []Item
	Paths []PathEntry
}

// Crate is a fully decoded crate: its lib name (underscores, as rustdoc
// reports it), the crate-level doc summary, and the item index.
type Crate struct {
	Name  string
	Doc   string
	Index Index
}

// OwnerName returns the name of the item's owner, following the parent
// reference into the items list or the paths table. ok is false for items
// without a parent.
func (x *Index) OwnerName(it *Item) (string, bool) {
	if i, ok := it.Parent.Self(); ok {
		return x.Items[i].Name, true
	}
	if i, ok := it.Parent.Foreign(); ok {
		return x.Paths[i].Name, true
	}
	return "", false
}

// JoinedPath returns the full ::-joined simple path of item i, including
// the owner segment for associated items, e.g. "anyhow::Error::new".
func (x *Index) JoinedPath(i int) string {
	it := &x.Items[i]
	if owner, ok := x.OwnerName(it); ok {
		return it.ModulePath + "::" + owner + "::" + it.Name
	}
	return it.ModulePath + "::" + it.Name
}
