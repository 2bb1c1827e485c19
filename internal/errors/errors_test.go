package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	errors []string
}

func (r *recordingLogger) Error(msg string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(msg, args...))
}
func (r *recordingLogger) Warn(msg string, args ...interface{})  {}
func (r *recordingLogger) Debug(msg string, args ...interface{}) {}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		err    error
		target error
	}{
		{NewMissingSectionError("LicenseInformation"), ErrConfigMissingSection},
		{NewInvalidDocumentError(stderrors.New("eof")), ErrConfigInvalidDocument},
		{NewMalformedFieldError("AppId", "x", nil), ErrConfigMalformedField},
		{NewManifestNotFoundError("WMAppManifest.xml", nil), ErrManifestNotFound},
		{NewMalformedManifestError("ProductID", "x", stderrors.New("bad")), ErrManifestMalformed},
		{NewSimulatedFailureError("LoadListingInformationAsync_GetResult"), ErrSimulatedRemoteFailure},
		{NewNotInitializedError(), ErrNotInitialized},
		{NewProductNotFoundError("p1"), ErrProductNotFound},
		{NewInvalidModeError("sandbox", "unknown"), ErrInvalidMode},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.target)
		assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.target)
	}

	assert.NotErrorIs(t, NewNotInitializedError(), ErrProductNotFound)
}

func TestErrorMessageAndCause(t *testing.T) {
	cause := stderrors.New("invalid UUID length: 4")
	err := NewMalformedFieldError("ListingInformation/App/AppId", "nope", cause)

	assert.Equal(t, `malformed value "nope" for ListingInformation/App/AppId: invalid UUID length: 4`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "nope", err.Context["value"])

	failure := NewSimulatedFailureError("LoadListingInformationAsync_GetResult")
	assert.Equal(t, "LoadListingInformationAsync_GetResult was programmed to fail in simulator settings", failure.Error())
}

func TestAs(t *testing.T) {
	storeErr, ok := As(fmt.Errorf("outer: %w", NewProductNotFoundError("p1")))
	require.True(t, ok)
	assert.Equal(t, "p1", storeErr.Context["product_id"])

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestFormatDetailed(t *testing.T) {
	err := NewManifestNotFoundError("WMAppManifest.xml", stderrors.New("no such file"))
	out := err.FormatDetailed()

	assert.Contains(t, out, "NOT_FOUND Error [MANIFEST_NOT_FOUND]")
	assert.Contains(t, out, "WMAppManifest.xml")
	assert.Contains(t, out, "Set store.manifest")
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)

	assert.Nil(t, handler.Handle(nil))

	handled := handler.Handle(NewNotInitializedError())
	assert.Equal(t, CodeNotInitialized, handled.Code)

	plain := handler.Handle(stderrors.New("boom"))
	assert.Equal(t, ErrorTypeUnknown, plain.Type)

	stats := handler.GetStats()
	assert.Equal(t, 2, stats.TotalErrors)
	assert.Equal(t, 1, stats.ErrorsByCode[CodeNotInitialized])
	assert.Equal(t, 1, stats.ErrorsByType[ErrorTypeState])
	assert.Len(t, logger.errors, 2)
}
