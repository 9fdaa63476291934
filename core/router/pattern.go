package router

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// matcher is a compiled route pattern for the ordered route table.
//
// It understands the same syntax as the routing tree ({name}, {name:regexp},
// trailing *) plus two table-only forms: {name:path}, which matches the rest
// of the path including slashes, and a trailing "/?" which makes the final
// slash optional.
type matcher struct {
	pattern string
	re      *regexp.Regexp
	groups  []string
}

// ValidatePattern reports whether pattern is accepted by the route table,
// returning the error Table.Insert would return for it.
func ValidatePattern(pattern string) error {
	_, err := compilePattern(pattern)
	return err
}

// compilePattern turns a route pattern into an anchored regular expression.
func compilePattern(pattern string) (m *matcher, err error) {
	if len(pattern) == 0 || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern)
	}

	// patNextSegment and patParamKeys report malformed patterns by panicking.
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = fmt.Errorf("%w: '%s'", e, pattern)
				return
			}
			err = fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, p)
		}
	}()

	rest := pattern
	optionalSlash := false
	if strings.HasSuffix(rest, "/?") {
		rest = strings.TrimSuffix(rest, "/?")
		optionalSlash = true
	}

	patParamKeys(rest)
	m = &matcher{pattern: pattern}

	var sb strings.Builder
	sb.WriteByte('^')
	for len(rest) > 0 {
		typ, key, rexpat, _, ps, pe := patNextSegment(rest)
		if typ == ntStatic {
			sb.WriteString(regexp.QuoteMeta(rest))
			break
		}

		sb.WriteString(regexp.QuoteMeta(rest[:ps]))
		group := "p" + strconv.Itoa(len(m.groups))
		m.groups = append(m.groups, key)

		switch typ {
		case ntParam:
			sb.WriteString("(?P<" + group + ">[^/]+)")
		case ntCatchAll:
			sb.WriteString("(?P<" + group + ">.*)")
		case ntRegexp:
			expr := strings.TrimSuffix(strings.TrimPrefix(rexpat, "^"), "$")
			if expr == "path" {
				expr = ".*"
			}
			if _, cerr := regexp.Compile(expr); cerr != nil {
				return nil, fmt.Errorf("%w: '%s'", ErrInvalidRegexp, expr)
			}
			sb.WriteString("(?P<" + group + ">" + expr + ")")
		}
		rest = rest[pe:]
	}
	if optionalSlash {
		sb.WriteString("/?")
	}
	sb.WriteByte('$')

	re, cerr := regexp.Compile(sb.String())
	if cerr != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRegexp, pattern)
	}
	m.re = re
	return m, nil
}

// match reports whether path matches and returns the extracted parameters.
func (m *matcher) match(path string) (map[string]string, bool) {
	sub := m.re.FindStringSubmatch(path)
	if sub == nil {
		return nil, false
	}
	if len(m.groups) == 0 {
		return nil, true
	}

	params := make(map[string]string, len(m.groups))
	for i, key := range m.groups {
		idx := m.re.SubexpIndex("p" + strconv.Itoa(i))
		if idx > 0 && idx < len(sub) {
			params[key] = sub[idx]
		}
	}
	return params, true
}
