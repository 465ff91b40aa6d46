package facility

import "github.com/rotisserie/eris"

// ErrIllegalTransition is returned when Advance is asked to move a row
// along an edge the state DAG in §3 does not permit.
var ErrIllegalTransition = eris.New("facility: illegal status transition")

var itemTransitions = map[ItemStatus]map[ItemStatus]bool{
	StatusUploaded: {
		StatusParsed:       true,
		StatusErrorParsing: true,
	},
	StatusParsed: {
		StatusGeocoded:          true,
		StatusGeocodedNoResults: true,
		StatusErrorGeocoding:    true,
	},
	StatusGeocoded: {
		StatusPotentialMatch: true,
		StatusMatched:        true,
		StatusErrorMatching:  true,
	},
	StatusGeocodedNoResults: {
		StatusPotentialMatch: true,
		StatusMatched:        true,
		StatusErrorMatching:  true,
	},
	StatusPotentialMatch: {
		StatusMatched: true,
	},
}

// Advance moves the item to the given status, rejecting any move the
// state DAG does not allow. Terminal statuses (ERROR_PARSING,
// ERROR_GEOCODING, ERROR_MATCHING, MATCHED reached from GEOCODED*) have no
// outgoing edges and always reject further Advance calls.
func (i *FacilityListItem) Advance(to ItemStatus) error {
	allowed, ok := itemTransitions[i.Status]
	if !ok || !allowed[to] {
		return eris.Wrapf(ErrIllegalTransition, "%s -> %s", i.Status, to)
	}
	i.Status = to
	return nil
}

// CanAdvance reports whether Advance(to) would succeed, without mutating
// the item. Used by callers that want to check before doing work.
func (i *FacilityListItem) CanAdvance(to ItemStatus) bool {
	allowed, ok := itemTransitions[i.Status]
	return ok && allowed[to]
}
