package edge

// Matches reports whether endpoint e belongs to group g.
//
// Dynamic groups with PartialMatch accept endpoints carrying any of the
// group's tags; without it every group tag must be present.
func Matches(g Group, e Endpoint) bool {
	if !g.Dynamic {
		for _, id := range g.Endpoints {
			if id == e.ID {
				return true
			}
		}
		return false
	}
	if len(g.TagIDs) == 0 {
		return false
	}

	has := make(map[int]struct{}, len(e.TagIDs))
	for _, id := range e.TagIDs {
		has[id] = struct{}{}
	}
	if g.PartialMatch {
		for _, id := range g.TagIDs {
			if _, ok := has[id]; ok {
				return true
			}
		}
		return false
	}
	for _, id := range g.TagIDs {
		if _, ok := has[id]; !ok {
			return false
		}
	}
	return true
}

// MatchEndpoints returns the endpoints that belong to g, in input order.
func MatchEndpoints(g Group, endpoints []Endpoint) []Endpoint {
	var out []Endpoint
	for _, e := range endpoints {
		if Matches(g, e) {
			out = append(out, e)
		}
	}
	return out
}
