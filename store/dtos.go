package store

import (
	"reflect"

	"dto-services/entity"
)

// AuthorDto creates and edits authors. Nickname has no Author counterpart
// and is ignored.
type AuthorDto struct {
	entity.Link[Author]
	ID       int64
	Name     string
	Email    string
	Bio      string
	Nickname string
}

// AuthorNameDto is a projection of Author.
type AuthorNameDto struct {
	entity.Link[Author]
	ID   int64
	Name string
}

type CreateBookDto struct {
	entity.Link[Book]
	BookID     int64
	Title      string
	AuthorID   int64
	PriceCents int64
}

// ChangePriceDto can only update books.
type ChangePriceDto struct {
	entity.Link[Book]
	BookID     int64
	PriceCents int
}

type DddCtorDto struct {
	entity.Link[DddCtorEntity]
	ID       int
	MyInt    int
	MyString string
}

type DddStaticFactDto struct {
	entity.Link[DddStaticFactEntity]
	ID       int
	MyInt    int
	MyString *string
}

type BookSummaryDto struct {
	entity.Link[BookSummary]
	ID         int64
	Title      string
	AuthorName string
}

// DtoTypes lists every DTO of the domain in registration order.
func DtoTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[AuthorDto](),
		reflect.TypeFor[AuthorNameDto](),
		reflect.TypeFor[CreateBookDto](),
		reflect.TypeFor[ChangePriceDto](),
		reflect.TypeFor[DddCtorDto](),
		reflect.TypeFor[DddStaticFactDto](),
		reflect.TypeFor[BookSummaryDto](),
	}
}
