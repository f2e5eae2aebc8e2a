// Package store is the example domain: a small bookstore whose entities cover
// every construction style the registry can decide.
package store

import (
	"errors"
	"strings"

	"dto-services/entity"
	"dto-services/status"
)

// 1. Author is a plain entity: the zero value is valid and every property is
// settable, so it is created by copying DTO fields.
type Author struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Bio   *string `json:"bio,omitempty"`
}

// 2. Book can only be created through NewBook. Price changes go through
// ChangePrice so the rule on negative prices holds.
// We use int64 for Price to represent cents (lowest currency unit).
type Book struct {
	BookID     int64  `json:"book_id"`
	Title      string `json:"title"       crud:"readonly"`
	AuthorID   int64  `json:"author_id"   crud:"readonly"`
	PriceCents int64  `json:"price_cents" crud:"readonly"`
}

var ErrNegativePrice = errors.New("price must not be negative")

// NewBook validates and creates a Book.
func NewBook(title string, authorID, priceCents int64) (*Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("a book needs a title")
	}

	if priceCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Book{Title: title, AuthorID: authorID, PriceCents: priceCents}, nil
}

// ChangePrice sets a new price.
func (b *Book) ChangePrice(priceCents int64) error {
	if priceCents < 0 {
		return ErrNegativePrice
	}

	b.PriceCents = priceCents

	return nil
}

// Retitle renames the book.
func (b *Book) Retitle(title string) {
	b.Title = title
}

func (Book) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Ctor("NewBook", NewBook, "title", "authorID", "priceCents"),
		entity.Updater("ChangePrice", "priceCents"),
		entity.Updater("Retitle", "title"),
	}
}

// 3. DddCtorEntity is built by a value-returning constructor.
type DddCtorEntity struct {
	ID       int    `json:"id"`
	MyInt    int    `json:"my_int"    crud:"readonly"`
	MyString string `json:"my_string" crud:"readonly"`
}

// NewDddCtorEntity creates a DddCtorEntity.
func NewDddCtorEntity(myInt int, myString string) DddCtorEntity {
	return DddCtorEntity{MyInt: myInt, MyString: myString}
}

func (DddCtorEntity) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Ctor("NewDddCtorEntity", NewDddCtorEntity, "myInt", "myString"),
	}
}

// 4. DddStaticFactEntity is built by a factory that reports failures as a
// status instead of an error.
type DddStaticFactEntity struct {
	ID       int    `json:"id"`
	MyInt    int    `json:"my_int"    crud:"readonly"`
	MyString string `json:"my_string" crud:"readonly"`
}

// CreateDddStaticFactEntity rejects a missing string.
func CreateDddStaticFactEntity(myInt int, myString *string) (*DddStaticFactEntity, status.Status) {
	if myString == nil {
		return nil, status.Fail(status.KindConstruction, status.CodeInvalidInput, "The string should not be null.")
	}

	return &DddStaticFactEntity{MyInt: myInt, MyString: *myString}, status.Status{}
}

func (DddStaticFactEntity) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Factory("CreateDddStaticFactEntity", CreateDddStaticFactEntity, "myInt", "myString"),
	}
}

// 5. BookSummary is a read model: nothing can be written.
type BookSummary struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"       crud:"readonly"`
	AuthorName string `json:"author_name" crud:"readonly"`
	PriceCents int64  `json:"price_cents" crud:"readonly"`
}
