package revision

// Node is one translation seen as a node of the region's language tree:
// the translation itself plus access to its source translation (the same
// content object in the parent node's language) and to the latest major
// public revision of its own chain.
type Node interface {
	Translation

	// Source returns the translation this one is derived from, or false if
	// this translation's language is the root of the language tree.
	Source() (Node, bool)

	// MajorPublicRevision returns the latest major public revision of this
	// translation's chain, or false if it was never published.
	MajorPublicRevision() (Translation, bool)
}

// maxTreeDepth caps the walk up the language tree. Real trees are at most a
// handful of levels deep; the cap keeps a corrupted tree from looping.
const maxTreeDepth = 32

// Outdated reports whether a translation needs a new revision because its
// source translation changed. The rules, checked in this order per node:
//
//  1. a translation currently held by an external translator is not outdated
//  2. the root language translation is never outdated
//  3. if the source translation is outdated, so is this one
//  4. if either side has no major public revision yet, there is nothing to
//     compare against and the translation is not outdated
//  5. otherwise the translation is outdated iff its major public revision is
//     strictly older than the source's major public revision
//
// The original recursive formulation is unrolled into an explicit walk up
// the tree followed by a fold back down, so the depth of the language tree
// never turns into stack depth.
func Outdated(n Node) bool {
	chain := []Node{n}
	seen := map[Node]bool{n: true}
	cur := n
	for len(chain) <= maxTreeDepth {
		src, ok := cur.Source()
		if !ok || seen[src] {
			break
		}
		chain = append(chain, src)
		seen[src] = true
		cur = src
	}

	// The topmost collected node is treated as the root: either it is the
	// actual tree root, or the cap/cycle guard cut the walk short and we
	// fall back to "not outdated" for everything above.
	outdated := false
	for i := len(chain) - 2; i >= 0; i-- {
		outdated = nodeOutdated(chain[i], chain[i+1], outdated)
	}
	return outdated
}

// UpToDate reports whether a translation is neither outdated nor currently
// being worked on by an external translator.
func UpToDate(n Node) bool {
	return !n.InTranslation() && !Outdated(n)
}

func nodeOutdated(n, src Node, srcOutdated bool) bool {
	if n.InTranslation() {
		return false
	}
	if srcOutdated {
		return true
	}
	selfRev, ok := n.MajorPublicRevision()
	if !ok {
		return false
	}
	srcRev, ok := src.MajorPublicRevision()
	if !ok {
		return false
	}
	return selfRev.LastUpdatedAt().Before(srcRev.LastUpdatedAt())
}
