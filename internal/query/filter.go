// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"regexp"
	"strings"

	"github.com/MKhiriev/go-sync-store/internal/errs"
)

// Match reports whether doc satisfies filter. An empty filter matches
// everything. Unknown operators fail with a KindKinvey error.
func Match(filter map[string]any, doc map[string]any) (bool, error) {
	for key, cond := range filter {
		ok, err := matchKey(key, cond, doc)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchKey(key string, cond any, doc map[string]any) (bool, error) {
	switch key {
	case "$and":
		subs, err := subFilters(key, cond)
		if err != nil {
			return false, err
		}
		for _, sub := range subs {
			ok, err := Match(sub, doc)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case "$or", "$nor":
		subs, err := subFilters(key, cond)
		if err != nil {
			return false, err
		}
		matched := false
		for _, sub := range subs {
			ok, err := Match(sub, doc)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
		}
		if key == "$nor" {
			return !matched, nil
		}
		return matched, nil
	}
	if strings.HasPrefix(key, "$") {
		return false, errs.Newf(errs.KindKinvey, "unsupported top-level operator %q", key)
	}

	value, exists := lookup(doc, key)
	if ops, ok := operatorMap(cond); ok {
		return matchOperators(ops, value, exists)
	}
	return matchEqual(value, exists, cond), nil
}

func subFilters(op string, cond any) ([]map[string]any, error) {
	list, ok := asList(cond)
	if !ok {
		return nil, errs.Newf(errs.KindKinvey, "%s expects a list of filters", op)
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, errs.Newf(errs.KindKinvey, "%s expects a list of filters", op)
		}
		out = append(out, m)
	}
	return out, nil
}

// operatorMap returns cond as an operator map when every key starts with "$".
func operatorMap(cond any) (map[string]any, bool) {
	m, ok := asMap(cond)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

// matchEqual implements implicit equality; an array field matches when any
// of its elements equals want.
func matchEqual(value any, exists bool, want any) bool {
	if !exists {
		return want == nil
	}
	if equal(value, want) {
		return true
	}
	if list, ok := asList(value); ok {
		if _, wantList := asList(want); !wantList {
			for _, item := range list {
				if equal(item, want) {
					return true
				}
			}
		}
	}
	return false
}

func matchOperators(ops map[string]any, value any, exists bool) (bool, error) {
	for op, arg := range ops {
		ok, err := matchOperator(op, arg, ops, value, exists)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchOperator(op string, arg any, ops map[string]any, value any, exists bool) (bool, error) {
	switch op {
	case "$eq":
		return matchEqual(value, exists, arg), nil
	case "$ne":
		return !matchEqual(value, exists, arg), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !exists {
			return false, nil
		}
		c, ok := compare(value, arg)
		if !ok {
			return false, nil
		}
		switch op {
		case "$gt":
			return c > 0, nil
		case "$gte":
			return c >= 0, nil
		case "$lt":
			return c < 0, nil
		}
		return c <= 0, nil
	case "$in", "$nin":
		list, ok := asList(arg)
		if !ok {
			return false, errs.Newf(errs.KindKinvey, "%s expects a list", op)
		}
		found := false
		for _, item := range list {
			if matchEqual(value, exists, item) {
				found = true
				break
			}
		}
		if op == "$nin" {
			return !found, nil
		}
		return found, nil
	case "$exists":
		want, ok := arg.(bool)
		if !ok {
			return false, errs.New(errs.KindKinvey, "$exists expects a boolean")
		}
		return exists == want, nil
	case "$regex":
		pattern, ok := arg.(string)
		if !ok {
			return false, errs.New(errs.KindKinvey, "$regex expects a string")
		}
		if opts, _ := ops["$options"].(string); strings.Contains(opts, "i") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, errs.Wrap(errs.KindKinvey, err, "invalid $regex")
		}
		s, ok := value.(string)
		return ok && re.MatchString(s), nil
	case "$options":
		return true, nil
	}
	return false, errs.Newf(errs.KindKinvey, "unsupported operator %q", op)
}
