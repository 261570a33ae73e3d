package configurator

import "slices"

// Annotate marks every group and option of the tree as selected/active for the
// given selection. The inputs are left untouched; the returned groups are fresh.
//
// An option is active when each option the shopper picked in another group is
// in its combination set. Picks in the option's own group never disable it. A
// configurator with a single group has no cross-group constraints, so any option
// with known combinations stays active there.
func Annotate(groups []Group, combinations Combinations, selection Selection, media map[int]Media) []AnnotatedGroup {
	onlyOneGroup := len(groups) == 1

	chosen := make(map[int]struct{}, len(selection))
	for _, optionID := range selection {
		chosen[optionID] = struct{}{}
	}

	out := make([]AnnotatedGroup, 0, len(groups))
	for _, group := range groups {
		_, groupSelected := selection[group.ID]

		annotated := AnnotatedGroup{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			Position:    group.Position,
			Selected:    groupSelected,
			Options:     make([]AnnotatedOption, 0, len(group.Options)),
		}

		for _, option := range group.Options {
			combos := combinations[option.ID]
			_, selected := chosen[option.ID]

			a := AnnotatedOption{
				Option:   option,
				Selected: selected,
				Active:   isCombinationValid(group.ID, combos, selection) || (onlyOneGroup && len(combos) > 0),
			}
			if found, ok := media[option.ID]; ok {
				a.Media = &found
			}
			annotated.Options = append(annotated.Options, a)
		}

		out = append(out, annotated)
	}

	return out
}

// isCombinationValid reports whether an option with the given combination set
// is compatible with every pick made outside its own group.
func isCombinationValid(groupID int, combos []int, selection Selection) bool {
	if len(combos) == 0 {
		return false
	}

	for selectedGroup, selectedOption := range selection {
		if selectedGroup == groupID {
			continue
		}
		if !slices.Contains(combos, selectedOption) {
			return false
		}
	}
	return true
}

