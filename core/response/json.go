package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/restful/core/handler"
)

// JSON is an application/json 200 response.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus encodes v straight to the writer. Status 0 means 200, or
// 204 when v is nil. 204 and 304 carry no body.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
			if v == nil {
				status = http.StatusNoContent
			}
		}
		w.WriteHeader(status)
		if status == http.StatusNoContent || status == http.StatusNotModified {
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}
