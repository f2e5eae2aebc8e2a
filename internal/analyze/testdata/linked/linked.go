// Package linked holds DTO shapes for the analyzer tests.
package linked

import (
	"time"

	"dto-services/entity"
	"dto-services/store"
)

type Audit struct {
	CreatedAt time.Time
	Name      string
}

// PromotedDto reaches its marker through an embedded struct.
type PromotedDto struct {
	Base
	Name     string
	Internal string `crud:"-"`
}

type Base struct {
	entity.Link[store.Author]
	Audit
	ID int64
}

type PtrEntityDto struct {
	entity.Link[*store.Author] `crud:"create=Anything"`
	Err                        error
}

type TwoLinksDto struct {
	entity.Link[store.Author]
	Other
}

type Other struct {
	entity.Link[store.Book]
}
