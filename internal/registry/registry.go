// Package registry resolves bucket references against the organizations
// declared in configuration. A reference is either "org/bucket", a bare
// bucket slug that is unique across organizations, or empty to pick the
// configured default bucket.
package registry

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/objedit/jsonshape/internal/errors"
)

// Bucket is one addressable object store. Endpoint is carried as metadata
// for a transport layer; the Root is where a filesystem-backed bucket
// lives.
type Bucket struct {
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Root     string `yaml:"root,omitempty"`
}

// Organization groups buckets under one owner.
type Organization struct {
	Name    string   `yaml:"name"`
	Slug    string   `yaml:"slug,omitempty"`
	Buckets []Bucket `yaml:"buckets"`
}

// Ref is a fully resolved bucket reference.
type Ref struct {
	Org    Organization
	Bucket Bucket
}

// Registry indexes organizations for lookup.
type Registry struct {
	orgs          []Organization
	defaultBucket string
}

// New builds a registry. Missing slugs default to the kebab-case of the
// name; defaultBucket may be empty when no default is configured.
func New(orgs []Organization, defaultBucket string) *Registry {
	normalized := make([]Organization, len(orgs))
	for i, org := range orgs {
		if org.Slug == "" {
			org.Slug = strcase.ToKebab(org.Name)
		}
		for j, b := range org.Buckets {
			if b.Slug == "" {
				org.Buckets[j].Slug = strcase.ToKebab(b.Name)
			}
		}
		normalized[i] = org
	}
	return &Registry{orgs: normalized, defaultBucket: defaultBucket}
}

// Organizations returns the normalized organizations.
func (r *Registry) Organizations() []Organization {
	return r.orgs
}

// Resolve maps a bucket reference to a concrete bucket. An empty ref
// resolves through the configured default; "org/bucket" is an exact
// lookup; a bare slug matches across all organizations and fails when
// ambiguous.
func (r *Registry) Resolve(ref string) (Ref, error) {
	if ref == "" {
		if r.defaultBucket == "" {
			return Ref{}, errors.NewConfigError("no bucket given and no default bucket configured", errors.ErrUnknownBucket)
		}
		ref = r.defaultBucket
	}

	if org, bucket, found := strings.Cut(ref, "/"); found {
		for _, o := range r.orgs {
			if o.Slug != org {
				continue
			}
			for _, b := range o.Buckets {
				if b.Slug == bucket {
					return Ref{Org: o, Bucket: b}, nil
				}
			}
		}
		return Ref{}, errors.NewConfigError(fmt.Sprintf("bucket '%s' not found", ref), errors.ErrUnknownBucket)
	}

	var matches []Ref
	for _, o := range r.orgs {
		for _, b := range o.Buckets {
			if b.Slug == ref {
				matches = append(matches, Ref{Org: o, Bucket: b})
			}
		}
	}
	switch len(matches) {
	case 0:
		return Ref{}, errors.NewConfigError(fmt.Sprintf("bucket '%s' not found", ref), errors.ErrUnknownBucket)
	case 1:
		return matches[0], nil
	default:
		return Ref{}, errors.NewConfigError(
			fmt.Sprintf("bucket '%s' exists in %d organizations, qualify it as org/bucket", ref, len(matches)),
			errors.ErrAmbiguousBucket,
		)
	}
}
