package errors

import "net/http"

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNoDataLoaded    = "NO_DATA_LOADED"
	CodeUnknownCategory = "UNKNOWN_CATEGORY"
	CodePOINotFound     = "POI_NOT_FOUND"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidFile     = "INVALID_FILE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

var (
	ErrValidation = New(
		CodeValidation,
		"Dataset validation failed",
		http.StatusBadRequest,
	)

	ErrNoDataLoaded = New(
		CodeNoDataLoaded,
		"No POI data loaded. Please upload a CSV file first.",
		http.StatusBadRequest,
	)

	ErrUnknownCategory = New(
		CodeUnknownCategory,
		"Unknown POI type",
		http.StatusBadRequest,
	)

	ErrPOINotFound = New(
		CodePOINotFound,
		"No POIs found",
		http.StatusNotFound,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidFile = New(
		CodeInvalidFile,
		"Invalid file",
		http.StatusBadRequest,
	)

	ErrFileTooLarge = New(
		CodeFileTooLarge,
		"File is too large",
		http.StatusRequestEntityTooLarge,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternalServer = New(
		CodeInternal,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
