package view

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/restful/core/binder"
	"github.com/dmitrymomot/restful/core/handler"
)

var validate = validator.New()

// bindInput fills v from the request and validates it.
// Any failure is reported as a 422 input error.
func bindInput(ctx handler.Context, v any) error {
	bind := binder.Request(func(_ *http.Request, name string) string {
		return ctx.Param(name)
	})
	if err := bind(ctx.Request(), v); err != nil {
		return invalidInput(err)
	}
	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}
	if err := validate.StructCtx(ctx, v); err != nil {
		return invalidInput(err)
	}
	return nil
}
