package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeParsing
	ErrorTypeConfiguration
	ErrorTypeNotFound
	ErrorTypeSimulation
	ErrorTypeState
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeParsing:
		return "PARSING"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeSimulation:
		return "SIMULATION"
	case ErrorTypeState:
		return "STATE"
	default:
		return "UNKNOWN"
	}
}

// Error codes
const (
	CodeInvalidDocument   = "CONFIG_INVALID_DOCUMENT"
	CodeMissingSection    = "CONFIG_MISSING_SECTION"
	CodeMalformedField    = "CONFIG_MALFORMED_FIELD"
	CodeManifestNotFound  = "MANIFEST_NOT_FOUND"
	CodeManifestMalformed = "MANIFEST_MALFORMED"
	CodeSimulatedFailure  = "SIMULATED_REMOTE_FAILURE"
	CodeNotInitialized    = "NOT_INITIALIZED"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeInvalidMode       = "INVALID_MODE"
)

// Sentinels for errors.Is. A StoreError matches when type and code agree.
var (
	ErrConfigInvalidDocument  = &StoreError{Type: ErrorTypeParsing, Code: CodeInvalidDocument}
	ErrConfigMissingSection   = &StoreError{Type: ErrorTypeParsing, Code: CodeMissingSection}
	ErrConfigMalformedField   = &StoreError{Type: ErrorTypeParsing, Code: CodeMalformedField}
	ErrManifestNotFound       = &StoreError{Type: ErrorTypeNotFound, Code: CodeManifestNotFound}
	ErrManifestMalformed      = &StoreError{Type: ErrorTypeParsing, Code: CodeManifestMalformed}
	ErrSimulatedRemoteFailure = &StoreError{Type: ErrorTypeSimulation, Code: CodeSimulatedFailure}
	ErrNotInitialized         = &StoreError{Type: ErrorTypeState, Code: CodeNotInitialized}
	ErrProductNotFound        = &StoreError{Type: ErrorTypeNotFound, Code: CodeProductNotFound}
	ErrInvalidMode            = &StoreError{Type: ErrorTypeConfiguration, Code: CodeInvalidMode}
)

// StoreError represents an error with context and suggestions
type StoreError struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Stack       []string          `json:"stack,omitempty"`
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *StoreError) Is(target error) bool {
	if t, ok := target.(*StoreError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *StoreError) WithContext(key, value string) *StoreError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *StoreError) WithSuggestion(suggestion string) *StoreError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *StoreError) WithSuggestions(suggestions []string) *StoreError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// FormatDetailed returns a detailed error message with context and suggestions
func (e *StoreError) FormatDetailed() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s Error [%s]: %s\n", e.Type.String(), e.Code, e.Message))

	if len(e.Context) > 0 {
		builder.WriteString("\nContext:\n")
		for key, value := range e.Context {
			builder.WriteString(fmt.Sprintf("   %s: %s\n", key, value))
		}
	}

	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("\nUnderlying cause: %v\n", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString("\nSuggestions:\n")
		for _, suggestion := range e.Suggestions {
			builder.WriteString(fmt.Sprintf("   - %s\n", suggestion))
		}
	}

	return builder.String()
}

// NewError creates a new StoreError
func NewError(errorType ErrorType, code, message string) *StoreError {
	return &StoreError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     captureStack(),
	}
}

// WrapError wraps an existing error with StoreError
func WrapError(err error, errorType ErrorType, code, message string) *StoreError {
	return &StoreError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Cause:     err,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     captureStack(),
	}
}

// As returns the first StoreError in err's chain
func As(err error) (*StoreError, bool) {
	var storeErr *StoreError
	if stderrors.As(err, &storeErr) {
		return storeErr, true
	}
	return nil, false
}

// captureStack captures the current stack trace
func captureStack() []string {
	var stack []string

	// Skip this function and the constructor
	for i := 2; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		if strings.Contains(file, "storesim") {
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}

	return stack
}

// Common error constructors

// NewMissingSectionError reports a required section absent from a simulator document
func NewMissingSectionError(section string) *StoreError {
	return NewError(ErrorTypeParsing, CodeMissingSection,
		fmt.Sprintf("simulator configuration is missing the %s section", section)).
		WithContext("section", section).
		WithSuggestion("Compare the document against the sample written by 'storesim init'")
}

// NewInvalidDocumentError reports a simulator document that is not well-formed XML
func NewInvalidDocumentError(cause error) *StoreError {
	return WrapError(cause, ErrorTypeParsing, CodeInvalidDocument, "simulator configuration is not a valid XML document").
		WithSuggestion("Check the document for unbalanced or misspelled elements")
}

// NewMalformedFieldError reports a field whose value could not be interpreted
func NewMalformedFieldError(field, value string, cause error) *StoreError {
	msg := fmt.Sprintf("malformed value %q for %s", value, field)
	var err *StoreError
	if cause != nil {
		err = WrapError(cause, ErrorTypeParsing, CodeMalformedField, msg)
	} else {
		err = NewError(ErrorTypeParsing, CodeMalformedField, msg)
	}
	return err.WithContext("field", field).WithContext("value", value)
}

// NewManifestNotFoundError reports a missing host manifest descriptor
func NewManifestNotFoundError(source string, cause error) *StoreError {
	msg := fmt.Sprintf("app manifest %s is missing", source)
	var err *StoreError
	if cause != nil {
		err = WrapError(cause, ErrorTypeNotFound, CodeManifestNotFound, msg)
	} else {
		err = NewError(ErrorTypeNotFound, CodeManifestNotFound, msg)
	}
	return err.WithContext("manifest", source).
		WithSuggestions([]string{
			"Set store.manifest to the app's WMAppManifest.xml or APK",
			"Ensure the manifest contains an App element",
		})
}

// NewMalformedManifestError reports a manifest whose app identifier cannot be read
func NewMalformedManifestError(attribute, value string, cause error) *StoreError {
	return WrapError(cause, ErrorTypeParsing, CodeManifestMalformed,
		fmt.Sprintf("app manifest attribute %s has malformed value %q", attribute, value)).
		WithContext("attribute", attribute)
}

// NewSimulatedFailureError reports a call the simulator was programmed to fail
func NewSimulatedFailureError(method string) *StoreError {
	return NewError(ErrorTypeSimulation, CodeSimulatedFailure,
		fmt.Sprintf("%s was programmed to fail in simulator settings", method)).
		WithContext("method", method)
}

// NewNotInitializedError reports a call made before any snapshot was loaded
func NewNotInitializedError() *StoreError {
	return NewError(ErrorTypeState, CodeNotInitialized, "store simulator has not been initialized").
		WithSuggestion("Call InitializeDefault or Reload before querying the simulator")
}

// NewProductNotFoundError reports a product id absent from the current listing
func NewProductNotFoundError(productID string) *StoreError {
	return NewError(ErrorTypeNotFound, CodeProductNotFound,
		fmt.Sprintf("product %q is not part of the current listing", productID)).
		WithContext("product_id", productID)
}

// NewInvalidModeError reports an unknown or unusable store backend mode
func NewInvalidModeError(mode, reason string) *StoreError {
	return NewError(ErrorTypeConfiguration, CodeInvalidMode,
		fmt.Sprintf("store mode %q cannot be used: %s", mode, reason)).
		WithContext("mode", mode).
		WithSuggestion("Set store.mode to \"simulator\" or supply a live store client")
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger Logger
	stats  *ErrorStats
}

// Logger interface for error logging
type Logger interface {
	Error(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ErrorStats tracks error statistics
type ErrorStats struct {
	TotalErrors   int               `json:"total_errors"`
	ErrorsByType  map[ErrorType]int `json:"errors_by_type"`
	ErrorsByCode  map[string]int    `json:"errors_by_code"`
	LastError     *StoreError       `json:"last_error,omitempty"`
	LastErrorTime time.Time         `json:"last_error_time"`
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		stats: &ErrorStats{
			ErrorsByType: make(map[ErrorType]int),
			ErrorsByCode: make(map[string]int),
		},
	}
}

// Handle logs err, records it and returns it as a StoreError
func (eh *ErrorHandler) Handle(err error) *StoreError {
	if err == nil {
		return nil
	}

	storeErr, ok := As(err)
	if !ok {
		storeErr = WrapError(err, ErrorTypeUnknown, "UNKNOWN", err.Error())
	}

	eh.updateStats(storeErr)

	if eh.logger != nil {
		eh.logger.Error("Error occurred: %s [%s] %s", storeErr.Type.String(), storeErr.Code, storeErr.Message)

		for key, value := range storeErr.Context {
			eh.logger.Debug("Error context: %s = %s", key, value)
		}
	}

	return storeErr
}

// updateStats updates error statistics
func (eh *ErrorHandler) updateStats(err *StoreError) {
	eh.stats.TotalErrors++
	eh.stats.ErrorsByType[err.Type]++
	eh.stats.ErrorsByCode[err.Code]++
	eh.stats.LastError = err
	eh.stats.LastErrorTime = time.Now()
}

// GetStats returns error statistics
func (eh *ErrorHandler) GetStats() *ErrorStats {
	return eh.stats
}
