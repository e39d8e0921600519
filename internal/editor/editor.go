// Package editor binds the object store and the per-document session into
// the service an editing surface talks to: open a document, re-check it on
// every edit, and save it back through the gate.
package editor

import (
	"context"
	"fmt"

	"github.com/objedit/jsonshape/internal/errors"
	"github.com/objedit/jsonshape/internal/models"
	"github.com/objedit/jsonshape/internal/session"
	"github.com/objedit/jsonshape/internal/store"
	"github.com/objedit/jsonshape/internal/validate"
)

// Editor drives one document's load/edit/save cycle. Construct one per
// open document; it shares its session's single-caller discipline.
type Editor struct {
	store   store.ObjectStore
	session *session.Session
}

// New creates an editor over the given store with a fresh session in the
// given mode.
func New(st store.ObjectStore, mode session.BlockMode) *Editor {
	return &Editor{
		store:   st,
		session: session.New(mode),
	}
}

// Session exposes the editor's session for read accessors and mode
// toggles.
func (e *Editor) Session() *session.Session {
	return e.session
}

// Open fetches the object behind key, resets the session for the new
// document, and runs inference plus validation on it.
func (e *Editor) Open(ctx context.Context, key string) (models.JSONValue, validate.ValidationResult, error) {
	value, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, validate.CleanResult(), err
	}
	e.session.Reset()
	result := e.session.DetectAndValidate(value)
	return value, result, nil
}

// Apply is the explicit recompute hook: call it with the edited value at
// every point the in-memory document mutates.
func (e *Editor) Apply(value models.JSONValue) validate.ValidationResult {
	return e.session.DetectAndValidate(value)
}

// Save re-checks value and writes it through the gate. The re-check runs
// unconditionally because the document may have changed since the last
// Apply. In block mode a dirty result refuses the save.
func (e *Editor) Save(ctx context.Context, key string, value models.JSONValue) error {
	result := e.session.DetectAndValidate(value)
	if !e.session.CanSave() {
		return errors.NewOutputError(
			fmt.Sprintf("save blocked: document has %d %s and %d %s",
				result.ErrorCount(), pluralError(result.ErrorCount()),
				result.WarningCount(), pluralWarning(result.WarningCount())),
			errors.ErrSaveBlocked,
		)
	}
	return e.store.Put(ctx, key, value)
}

// List passes the store's listing through.
func (e *Editor) List(ctx context.Context) ([]store.ObjectInfo, error) {
	return e.store.List(ctx)
}

func pluralError(n int) string {
	if n == 1 {
		return "error"
	}
	return "errors"
}

func pluralWarning(n int) string {
	if n == 1 {
		return "warning"
	}
	return "warnings"
}
