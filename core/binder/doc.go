// Package binder fills structs from HTTP requests.
//
// Each field names its source with a struct tag:
//
//	type createInput struct {
//		Owner  string                `path:"owner"`
//		DryRun bool                  `query:"dry_run"`
//		Name   string                `json:"name"`
//		Tags   []string              `form:"tags"`
//		Logo   *multipart.FileHeader `file:"logo"`
//	}
//
// A tag value of "-" skips the field for that source. Fields without any of
// the path, query, form, file or json tags are bound from every source under
// their lowercased name. Scalars, pointers, slices (repeated or
// comma-separated values) and encoding.TextUnmarshaler types are supported.
//
// Request runs Path, Query and then the body binder chosen by Content-Type,
// so body values win over query values for the same field.
package binder
