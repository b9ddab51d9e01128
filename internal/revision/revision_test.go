package revision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rev is a minimal Translation for resolver tests.
type rev struct {
	version     int
	status      Status
	minor       bool
	locked      bool
	lastUpdated time.Time
}

func (r rev) RevisionVersion() int     { return r.version }
func (r rev) RevisionStatus() Status   { return r.status }
func (r rev) IsMinorEdit() bool        { return r.minor }
func (r rev) InTranslation() bool      { return r.locked }
func (r rev) LastUpdatedAt() time.Time { return r.lastUpdated }

func TestLatest(t *testing.T) {
	revs := []rev{
		{version: 3, status: StatusDraft},
		{version: 1, status: StatusPublic},
		{version: 2, status: StatusReview},
	}

	got, ok := Latest(revs)
	require.True(t, ok)
	assert.Equal(t, 3, got.version)

	_, ok = Latest([]rev(nil))
	assert.False(t, ok)
}

func TestLatestPublic(t *testing.T) {
	revs := []rev{
		{version: 4, status: StatusDraft},
		{version: 3, status: StatusPublic},
		{version: 2, status: StatusPublic},
		{version: 1, status: StatusPublic},
	}

	got, ok := LatestPublic(revs)
	require.True(t, ok)
	assert.Equal(t, 3, got.version)
}

func TestLatestPublicNeverPublished(t *testing.T) {
	revs := []rev{
		{version: 2, status: StatusReview},
		{version: 1, status: StatusDraft},
	}
	_, ok := LatestPublic(revs)
	assert.False(t, ok)
}

func TestLatestMajor(t *testing.T) {
	revs := []rev{
		{version: 3, status: StatusDraft, minor: true},
		{version: 2, status: StatusDraft},
		{version: 1, status: StatusPublic},
	}

	got, ok := LatestMajor(revs)
	require.True(t, ok)
	assert.Equal(t, 2, got.version)
}

func TestLatestMajorPublic(t *testing.T) {
	revs := []rev{
		{version: 4, status: StatusDraft},
		{version: 3, status: StatusPublic, minor: true},
		{version: 2, status: StatusPublic},
		{version: 1, status: StatusPublic, minor: true},
	}

	got, ok := LatestMajorPublic(revs)
	require.True(t, ok)
	assert.Equal(t, 2, got.version)
}

func TestPrevious(t *testing.T) {
	revs := []rev{
		{version: 3},
		{version: 2},
		{version: 1},
	}

	got, ok := Previous(revs, revs[0])
	require.True(t, ok)
	assert.Equal(t, 2, got.version)

	_, ok = Previous(revs, revs[2])
	assert.False(t, ok)
}

func TestPickIgnoresOrdering(t *testing.T) {
	// resolvers don't rely on the repository's version DESC ordering
	revs := []rev{
		{version: 1, status: StatusPublic},
		{version: 5, status: StatusPublic},
		{version: 3, status: StatusPublic},
	}
	got, ok := LatestPublic(revs)
	require.True(t, ok)
	assert.Equal(t, 5, got.version)
}

func TestChainNode(t *testing.T) {
	revs := []rev{
		{version: 2, status: StatusDraft},
		{version: 1, status: StatusPublic, lastUpdated: time.Unix(100, 0)},
	}

	node, ok := NewChainNode(revs, nil)
	require.True(t, ok)

	assert.Equal(t, 2, node.RevisionVersion())
	assert.Equal(t, StatusDraft, node.RevisionStatus())

	_, hasSource := node.Source()
	assert.False(t, hasSource)

	pub, ok := node.MajorPublicRevision()
	require.True(t, ok)
	assert.Equal(t, time.Unix(100, 0), pub.LastUpdatedAt())
}

func TestChainNodeEmptyChain(t *testing.T) {
	_, ok := NewChainNode([]rev(nil), nil)
	assert.False(t, ok)
}
