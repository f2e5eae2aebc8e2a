// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build an
// in-memory model of structs and their fields without running any code, and
// finds the DTO structs that embed entity.Link[E].
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/external)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - DtoLink: a DTO struct and the entity it links to
package analyze
