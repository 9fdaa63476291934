// Package view turns plain Go types into class-based views: several routed
// methods that share one request-scoped instance and its injected
// dependencies.
//
// # Declaring a View
//
// A view is declared once, at startup, with a Class builder. The builder
// records the constructor, the dependencies and the routed methods; nothing
// is inspected at request time.
//
//	type Items struct {
//		repo  *Repo
//		clock Clock
//		note  view.Opt[string] // bare declaration, never assigned
//	}
//
//	items := view.Define("Items", func(a view.Args) (*Items, error) {
//		return &Items{repo: view.Arg[*Repo](a, "repo")}, nil
//	})
//	view.Param(items, "repo", repoProvider)
//	view.Field(items, "clock", clockProvider, func(i *Items, c Clock) { i.clock = c })
//	view.Declare[Items](items, "note")
//
//	view.Method(items, "List", (*Items).List, view.Get("/items"), view.Get("/items/"))
//	view.MethodWith(items, "Show", (*Items).Show, view.Get("/items/{id}"))
//	view.Method(items, "Count", (*Items).Count, view.Get("/items/count"),
//		view.Shape(view.ResponseShape{Envelope: response.TextEnvelope}))
//
// Dependencies come from a provider (Param, Field), a literal (ParamDefault,
// FieldDefault) or the query string (ParamQuery). Declaration mistakes such
// as duplicate names or missing providers are collected and reported by
// Compose.
//
// # Composing
//
//	c := di.New()
//	r := router.New[*router.Context]()
//	if _, err := view.Compose[*router.Context](r, c, items); err != nil {
//		log.Fatal(err)
//	}
//
// Compose registers the instance factory with the container and inserts one
// table entry per route into the router. Routes keep declaration order across
// methods and across classes, so in the example above GET /items/count is
// served by Show, which was declared first. Within one request every route of
// the class sees the same *Items; the next request gets a new one.
//
// Method errors and resolver errors reach the router's error handler
// unchanged. Input binding failures in MethodWith answer 422.
//
// # Response Shape
//
// Each route carries a schema, an envelope and a status. The schema defaults
// to the method's result type and is visible in router.Routes; the envelope
// defaults to the router's envelope (JSON). Shape, ShapeOf and Status apply
// to every route of the method.
//
// # Resources
//
// Register is the lightweight form: a constructed value whose verb methods
// (Get, Post, ...) are bound to one or more patterns, with no dependency
// resolution.
//
//	api := view.NewAPI[*router.Context](r)
//	api.AddResource(&Catalog{}, "/catalog/?", "/catalog/{path:path}")
package view
