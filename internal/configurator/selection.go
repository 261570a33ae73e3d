package configurator

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const selectionParam = "group"

// ParseSelection decodes form-style selections like group[5]=12 from a query
// string. Empty values mean "nothing picked" and are skipped.
func ParseSelection(values url.Values) (Selection, error) {
	selection := make(Selection)

	for key, vals := range values {
		if !strings.HasPrefix(key, selectionParam+"[") || !strings.HasSuffix(key, "]") {
			continue
		}
		rawGroup := key[len(selectionParam)+1 : len(key)-1]
		groupID, err := strconv.Atoi(rawGroup)
		if err != nil || groupID <= 0 {
			return nil, fmt.Errorf("invalid configurator group %q", rawGroup)
		}

		raw := strings.TrimSpace(vals[len(vals)-1])
		if raw == "" {
			continue
		}
		optionID, err := strconv.Atoi(raw)
		if err != nil || optionID <= 0 {
			return nil, fmt.Errorf("invalid option %q for group %d", raw, groupID)
		}
		selection[groupID] = optionID
	}

	return selection, nil
}

// Encode renders the selection back into query values, sorted by group id.
func (s Selection) Encode() url.Values {
	groups := make([]int, 0, len(s))
	for g := range s {
		groups = append(groups, g)
	}
	sort.Ints(groups)

	values := make(url.Values, len(s))
	for _, g := range groups {
		values.Set(fmt.Sprintf("%s[%d]", selectionParam, g), strconv.Itoa(s[g]))
	}
	return values
}
