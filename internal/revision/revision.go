package revision

import "time"

// Status of a single translation revision
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusReview   Status = "REVIEW"
	StatusPublic   Status = "PUBLIC"
	StatusAutoSave Status = "AUTO_SAVE"
)

// Translation is the shared revision shape implemented by page, event, POI
// and push notification translations. A value represents one immutable
// revision of the translation of a content object in one language.
type Translation interface {
	RevisionVersion() int
	RevisionStatus() Status
	IsMinorEdit() bool
	// InTranslation reports whether an external translator currently holds
	// the advisory lock on this translation.
	InTranslation() bool
	LastUpdatedAt() time.Time
}

// Latest returns the revision with the highest version, regardless of status.
// Used for edit forms.
func Latest[T Translation](revs []T) (T, bool) {
	return pick(revs, func(T) bool { return true })
}

// LatestPublic returns the most recent public revision, i.e. the one that is
// currently served to the public API. Returns false if never published.
func LatestPublic[T Translation](revs []T) (T, bool) {
	return pick(revs, func(r T) bool { return r.RevisionStatus() == StatusPublic })
}

// LatestMajor returns the most recent revision that was not a minor edit.
func LatestMajor[T Translation](revs []T) (T, bool) {
	return pick(revs, func(r T) bool { return !r.IsMinorEdit() })
}

// LatestMajorPublic returns the most recent public revision that was not a
// minor edit. Derived translations compare against this revision when they
// check whether they are up to date.
func LatestMajorPublic[T Translation](revs []T) (T, bool) {
	return pick(revs, func(r T) bool {
		return r.RevisionStatus() == StatusPublic && !r.IsMinorEdit()
	})
}

// Previous returns the revision preceding the given one in the version chain.
func Previous[T Translation](revs []T, of T) (T, bool) {
	version := of.RevisionVersion() - 1
	for _, r := range revs {
		if r.RevisionVersion() == version {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// pick scans for the matching revision with the highest version. The caller
// usually passes revisions already ordered by version descending, but the
// scan does not rely on that.
func pick[T Translation](revs []T, match func(T) bool) (T, bool) {
	var best T
	found := false
	for _, r := range revs {
		if !match(r) {
			continue
		}
		if !found || r.RevisionVersion() > best.RevisionVersion() {
			best = r
			found = true
		}
	}
	return best, found
}
