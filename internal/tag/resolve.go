package tag

import "sort"

// Resolve merges freshly fetched tags with translated variants into one list of
// candidates ordered by preference. Tags already attached are dropped, and for
// each name or id only the most locale-preferred variant survives. Ties on
// preference keep input order, fresh tags before translations.
func Resolve(fresh, translated, attached []Tag) []Tag {
	candidates := make([]Tag, 0, len(fresh)+len(translated))
	candidates = append(candidates, fresh...)
	candidates = append(candidates, translated...)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Preference < candidates[j].Preference
	})

	attachedIDs := make(map[string]struct{}, len(attached))
	for _, t := range attached {
		if t.ID != "" {
			attachedIDs[t.ID] = struct{}{}
		}
	}

	out := make([]Tag, 0, len(candidates))
	seenNames := make(map[string]struct{}, len(candidates))
	seenIDs := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c.ID != "" {
			if _, ok := attachedIDs[c.ID]; ok {
				continue
			}
			if _, ok := seenIDs[c.ID]; ok {
				continue
			}
		}
		if _, ok := seenNames[c.Name]; ok {
			continue
		}
		out = append(out, c)
		seenNames[c.Name] = struct{}{}
		if c.ID != "" {
			seenIDs[c.ID] = struct{}{}
		}
	}
	return out
}
