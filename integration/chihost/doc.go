// Package chihost lets class-based views run on a go-chi router.
//
// The Host keeps an ordered route table for composed views and falls back to
// chi for everything else:
//
//	h := chihost.New()
//	h.Chi().Get("/healthz", healthz)
//	view.MustCompose[*router.Context](h, container, items)
//	http.ListenAndServe(":8080", h)
//
// Table entries win over chi routes and keep declaration order, so a
// catch-all declared first shadows every later route. The matched route is
// recorded for outer middlewares such as middleware.TimingHandler.
package chihost
