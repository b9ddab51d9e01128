package revision

import "time"

// ChainNode adapts one loaded revision chain (all revisions of a content
// object in one language) to the Node interface. The node identifies with
// its latest revision, which is what editors and the staleness check look
// at. Src points to the chain of the source language's translation and is
// nil for the tree root or when no source translation exists.
type ChainNode[T Translation] struct {
	Latest T
	Revs   []T
	Src    Node
}

func (n *ChainNode[T]) RevisionVersion() int            { return n.Latest.RevisionVersion() }
func (n *ChainNode[T]) RevisionStatus() Status          { return n.Latest.RevisionStatus() }
func (n *ChainNode[T]) IsMinorEdit() bool               { return n.Latest.IsMinorEdit() }
func (n *ChainNode[T]) InTranslation() bool             { return n.Latest.InTranslation() }
func (n *ChainNode[T]) LastUpdatedAt() time.Time        { return n.Latest.LastUpdatedAt() }

func (n *ChainNode[T]) Source() (Node, bool) {
	if n.Src == nil {
		return nil, false
	}
	return n.Src, true
}

func (n *ChainNode[T]) MajorPublicRevision() (Translation, bool) {
	r, ok := LatestMajorPublic(n.Revs)
	if !ok {
		return nil, false
	}
	return r, true
}

// NewChainNode builds a node from a loaded chain. Returns false for an
// empty chain (no translation in that language).
func NewChainNode[T Translation](revs []T, src Node) (*ChainNode[T], bool) {
	latest, ok := Latest(revs)
	if !ok {
		return nil, false
	}
	return &ChainNode[T]{Latest: latest, Revs: revs, Src: src}, true
}
