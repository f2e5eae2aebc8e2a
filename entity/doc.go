// Package entity holds the declarations a domain model uses to describe itself
// to the mapping engine.
//
// A DTO names its entity by embedding the zero-size Link marker:
//
//	type AuthorDto struct {
//		entity.Link[Author]
//		ID   int
//		Name string
//	}
//
// An entity that cannot be built from its zero value lists its construction
// mechanisms by implementing Constructible:
//
//	func (Book) Construction() []entity.Mechanism {
//		return []entity.Mechanism{
//			entity.Ctor("NewBook", NewBook, "title", "price"),
//			entity.Updater("ChangePrice", "price"),
//		}
//	}
//
// Key types:
//   - Link: DTO to entity marker
//   - Mechanism: a default, constructor, static factory or updater declaration
//   - Signature: a Mechanism validated against its entity type
//   - Tag: parsed `crud` struct tag
package entity
