// Package demo holds the sample views and resources served by cmd/restful.
//
// Items is a class-based view over an in-memory Store, Whoami binds a
// constructor parameter from the query string, and Catalog is a resource
// mounted on a whole path subtree. Setup composes all of them onto any
// view.Registrar, so the same demo runs on core/router and on chihost.
package demo
