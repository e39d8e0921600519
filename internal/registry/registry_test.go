package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrgs() []Organization {
	return []Organization{
		{
			Name: "Acme Corp",
			Buckets: []Bucket{
				{Name: "Raw Events", Root: "/data/raw"},
				{Name: "Shared", Root: "/data/acme-shared"},
			},
		},
		{
			Name: "Beta LLC",
			Slug: "beta",
			Buckets: []Bucket{
				{Name: "Shared", Root: "/data/beta-shared"},
			},
		},
	}
}

func TestNew_SlugDefaults(t *testing.T) {
	r := New(testOrgs(), "")
	orgs := r.Organizations()

	require.Len(t, orgs, 2)
	assert.Equal(t, "acme-corp", orgs[0].Slug, "missing org slug defaults to kebab-case name")
	assert.Equal(t, "beta", orgs[1].Slug, "explicit slug is kept")
	assert.Equal(t, "raw-events", orgs[0].Buckets[0].Slug)
	assert.Equal(t, "shared", orgs[0].Buckets[1].Slug)
}

func TestResolve_Qualified(t *testing.T) {
	r := New(testOrgs(), "")

	ref, err := r.Resolve("beta/shared")
	require.NoError(t, err)
	assert.Equal(t, "beta", ref.Org.Slug)
	assert.Equal(t, "/data/beta-shared", ref.Bucket.Root)
}

func TestResolve_BareSlugUnique(t *testing.T) {
	r := New(testOrgs(), "")

	ref, err := r.Resolve("raw-events")
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", ref.Org.Slug)
	assert.Equal(t, "/data/raw", ref.Bucket.Root)
}

func TestResolve_BareSlugAmbiguous(t *testing.T) {
	r := New(testOrgs(), "")

	_, err := r.Resolve("shared")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qualify it as org/bucket")
}

func TestResolve_Unknown(t *testing.T) {
	r := New(testOrgs(), "")

	_, err := r.Resolve("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = r.Resolve("acme-corp/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolve_Default(t *testing.T) {
	r := New(testOrgs(), "beta/shared")

	ref, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "/data/beta-shared", ref.Bucket.Root)
}

func TestResolve_NoDefaultConfigured(t *testing.T) {
	r := New(testOrgs(), "")

	_, err := r.Resolve("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no default bucket configured")
}
