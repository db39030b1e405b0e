package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scopedocs/internal/docerr"
	"scopedocs/internal/model"
	"scopedocs/internal/scope"
	serviceMocks "scopedocs/internal/service/mocks"
)

var dialogTarget = scope.NewFacultyScope(1, "jdoe")

func loadedDialog(t *testing.T, bridge *serviceMocks.MockLibraryBridge) *ImportDialog {
	t.Helper()
	bridge.On("Browse", mock.Anything, session).
		Return([]model.DocumentSummary{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil).Once()
	d := NewImportDialog(bridge, session, dialogTarget)
	require.NoError(t, d.Open(context.Background()))
	require.Equal(t, DialogLoaded, d.State())
	return d
}

func TestImportDialog_OpenLoadError(t *testing.T) {
	bridge := new(serviceMocks.MockLibraryBridge)
	loadErr := docerr.Unavailable("unable to open document storage", errors.New("read-only file system"))
	bridge.On("Browse", mock.Anything, session).Return([]model.DocumentSummary{}, loadErr)

	d := NewImportDialog(bridge, session, dialogTarget)
	err := d.Open(context.Background())
	assert.ErrorIs(t, err, docerr.ErrStorageUnavailable)
	assert.Equal(t, DialogLoadError, d.State())
	assert.Equal(t, loadErr, d.Err())

	_, err = d.Toggle("a")
	assert.ErrorIs(t, err, ErrDialogState)

	d.Cancel()
	assert.Equal(t, DialogClosed, d.State())
	assert.NoError(t, d.Err())
}

func TestImportDialog_ToggleAndConfirm(t *testing.T) {
	bridge := new(serviceMocks.MockLibraryBridge)
	d := loadedDialog(t, bridge)

	on, err := d.Toggle("c")
	require.NoError(t, err)
	assert.True(t, on)
	_, _ = d.Toggle("a")
	_, _ = d.Toggle("b")
	off, _ := d.Toggle("b")
	assert.False(t, off)
	unknown, err := d.Toggle("zzz")
	require.NoError(t, err)
	assert.False(t, unknown)

	assert.Equal(t, []string{"a", "c"}, d.Selected())

	bridge.On("ImportSelected", mock.Anything, session, []string{"a", "c"}, dialogTarget).
		Return([]model.DocumentSummary{{ID: "n1"}, {ID: "n2"}}, nil).Once()

	got, err := d.Confirm(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, DialogClosed, d.State())
	assert.Empty(t, d.Available())
	bridge.AssertExpectations(t)
}

func TestImportDialog_ConfirmFailureStaysLoaded(t *testing.T) {
	bridge := new(serviceMocks.MockLibraryBridge)
	d := loadedDialog(t, bridge)

	bridge.On("ImportSelected", mock.Anything, session, []string{}, dialogTarget).
		Return([]model.DocumentSummary{}, docerr.Validation("no documents selected")).Once()

	_, err := d.Confirm(context.Background())
	assert.ErrorIs(t, err, docerr.ErrValidation)
	assert.Equal(t, DialogLoaded, d.State())
	assert.Equal(t, "no documents selected", docerr.Message(d.Err()))

	_, _ = d.Toggle("b")
	bridge.On("ImportSelected", mock.Anything, session, []string{"b"}, dialogTarget).
		Return([]model.DocumentSummary{{ID: "n"}}, nil).Once()
	_, err = d.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DialogClosed, d.State())
	bridge.AssertExpectations(t)
}

func TestImportDialog_InvalidTransitions(t *testing.T) {
	bridge := new(serviceMocks.MockLibraryBridge)
	d := NewImportDialog(bridge, session, dialogTarget)

	_, err := d.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrDialogState)
	_, err = d.Toggle("a")
	assert.ErrorIs(t, err, ErrDialogState)

	d = loadedDialog(t, bridge)
	assert.ErrorIs(t, d.Open(context.Background()), ErrDialogState)
}

func TestImportDialog_CancelWhileLoading(t *testing.T) {
	bridge := new(serviceMocks.MockLibraryBridge)
	var d *ImportDialog
	bridge.On("Browse", mock.Anything, session).
		Run(func(mock.Arguments) {
			assert.Equal(t, DialogLoading, d.State())
			d.Cancel()
		}).
		Return([]model.DocumentSummary{{ID: "a"}}, nil)

	d = NewImportDialog(bridge, session, dialogTarget)
	require.NoError(t, d.Open(context.Background()))
	assert.Equal(t, DialogClosed, d.State())
	assert.Empty(t, d.Available())
}

func TestDialogState_String(t *testing.T) {
	assert.Equal(t, "closed", DialogClosed.String())
	assert.Equal(t, "loading", DialogLoading.String())
	assert.Equal(t, "loaded", DialogLoaded.String())
	assert.Equal(t, "load_error", DialogLoadError.String())
	assert.Equal(t, "unknown", DialogState(42).String())
}
