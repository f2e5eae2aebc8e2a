package cli

import (
	"context"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"dto-services/internal/report"
	"dto-services/persist"
	"dto-services/registry"
	"dto-services/services"
	"dto-services/status"
	"dto-services/store"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run create, read, update and delete against the bookstore domain",
		Long: `Register the bundled bookstore DTOs and run a fixed sequence of service
calls against the configured store. Some calls fail on purpose, to show
construction, read-only and not-found statuses.`,
		Example: `  dto-services demo
  dto-services demo --store sqlite --dsn demo.db -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd.Context())
			ctx := cmd.Context()

			db, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			reg := a.registry()
			if st := reg.RegisterAll(store.DtoTypes()...); !st.IsValid() {
				return fmt.Errorf("register bookstore DTOs: %w", st.Err())
			}

			r, err := runDemo(ctx, a, reg, db)
			if err != nil {
				return err
			}

			r.Store = a.storeName()
			a.logger.Info("demo finished", "steps", len(r.Steps), "failed", r.Failed())

			return report.Write(cmd.OutOrStdout(), a.output, r)
		},
	}
}

func newService[D any](a *app, reg *registry.Registry, db persist.Store) (*services.Service[D], error) {
	return services.New[D](reg, db,
		services.WithMessages(a.cfg.Messages.Services()),
		services.WithLogger(a.logger))
}

func dtoName[D any]() string {
	return reflect.TypeFor[D]().Name()
}

func create[D any](ctx context.Context, r *report.RunReport, svc *services.Service[D], dto *D) any {
	key, st := svc.Create(ctx, dto)
	r.Add("Create", dtoName[D](), st)

	return key
}

func runDemo(ctx context.Context, a *app, reg *registry.Registry, db persist.Store) (*report.RunReport, error) {
	authors, err := newService[store.AuthorDto](a, reg, db)
	if err != nil {
		return nil, err
	}

	names, err := newService[store.AuthorNameDto](a, reg, db)
	if err != nil {
		return nil, err
	}

	books, err := newService[store.CreateBookDto](a, reg, db)
	if err != nil {
		return nil, err
	}

	prices, err := newService[store.ChangePriceDto](a, reg, db)
	if err != nil {
		return nil, err
	}

	factories, err := newService[store.DddStaticFactDto](a, reg, db)
	if err != nil {
		return nil, err
	}

	summaries, err := newService[store.BookSummaryDto](a, reg, db)
	if err != nil {
		return nil, err
	}

	r := &report.RunReport{}

	ada := &store.AuthorDto{Name: "Ada Lovelace", Email: "ada@example.com", Bio: "Analyst"}
	authorKey := create(ctx, r, authors, ada)

	name, st := names.Read(ctx, authorKey)
	if st.IsValid() {
		st = st.WithMessage("read " + name.Name)
	}

	r.Add("Read", dtoName[store.AuthorNameDto](), st)

	ada.Email = "ada@analytical.engine"
	r.Add("Update", dtoName[store.AuthorDto](), authors.Update(ctx, ada))

	authorID, _ := authorKey.(int64)
	book := &store.CreateBookDto{Title: "Notes on the Engine", AuthorID: authorID, PriceCents: 1500}
	bookKey := create(ctx, r, books, book)

	bookID, _ := bookKey.(int64)
	r.Add("Update", dtoName[store.ChangePriceDto](), prices.Update(ctx, &store.ChangePriceDto{BookID: bookID, PriceCents: 1299}))

	create(ctx, r, books, &store.CreateBookDto{Title: "Refund", AuthorID: authorID, PriceCents: -1})
	create(ctx, r, factories, &store.DddStaticFactDto{MyInt: 7})
	create(ctx, r, summaries, &store.BookSummaryDto{Title: "Notes on the Engine"})

	r.Add("Delete", dtoName[store.AuthorDto](), authors.Delete(ctx, authorKey))

	_, st = names.Read(ctx, authorKey)
	r.Add("Read", dtoName[store.AuthorNameDto](), st)

	count, st := books.Count(ctx)
	r.Add("Count", dtoName[store.CreateBookDto](), status.Combine(st, status.Ok(fmt.Sprintf("%d book(s)", count))))

	return r, nil
}
