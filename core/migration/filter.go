// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migration

import (
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Filter holds the key/value pairs used to select resources for batch
// migration. All pairs must match (logical AND).
type Filter map[string]string

// ParseFilter parses one or more filter expressions of the form
// "key:value[,key:value...]" into a single Filter. Later values for a
// repeated key override earlier ones.
func ParseFilter(expressions ...string) (Filter, error) {
	filter := Filter{}
	for _, expr := range expressions {
		for _, pair := range strings.Split(expr, ",") {
			if pair == "" {
				continue
			}
			key, value, ok := strings.Cut(pair, ":")
			if !ok || key == "" {
				return nil, errors.Errorf("invalid resource filter %q, expecting \"key:value\"", pair)
			}
			filter[key] = value
		}
	}
	return filter, nil
}

// Keys returns the filter's keys in lexical order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// String renders the filter back into "key:value,key:value" form.
func (f Filter) String() string {
	parts := make([]string, 0, len(f))
	for _, key := range f.Keys() {
		parts = append(parts, key+":"+f[key])
	}
	return strings.Join(parts, ",")
}
