package response

import (
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
)

// Redirect is a 302 Found redirect to url.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectWithStatus redirects with any 3xx status; other codes become 302.
func RedirectWithStatus(url string, status int) handler.Response {
	if status < 300 || status > 399 {
		status = http.StatusFound
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}
