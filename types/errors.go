package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrEntryType is returned when an entry or section is not a mapping.
	ErrEntryType = errors.New("entry is not a mapping")
	// ErrFieldType is returned when a field value has the wrong type.
	ErrFieldType = errors.New("field has an invalid type")
	// ErrUnknownField is returned for fields an entity does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownTag is returned when no entity is registered for a tag.
	ErrUnknownTag = errors.New("unknown entity tag")
)

// LoadError is returned when a configuration entry cannot be turned into an entity.
type LoadError struct {
	Tag   string // entity tag, e.g. [PlatformTag]
	Name  string // entity name
	Field string // field within the entry, empty when the whole entry is invalid
	Err   error
}

func (e *LoadError) Error() string {
	msg := "failed to load"
	if e.Tag != "" {
		msg += " " + e.Tag
	}
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(", field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrorResp is returned by the server on an invalid request.
type ErrorResp struct {
	Errors []ErrorInfo `json:"errors"`
}

// ErrRespJSON encodes a list of errors to json and outputs them to the writer.
func ErrRespJSON(w io.Writer, errList ...ErrorInfo) error {
	resp := ErrorResp{
		Errors: errList,
	}
	return json.NewEncoder(w).Encode(resp)
}

// ErrorInfo describes an error entry from [ErrorResp].
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// ErrInfoNotFound is returned when the path does not match any resource.
func ErrInfoNotFound(d string) ErrorInfo {
	return ErrorInfo{
		Code:    "NOT_FOUND",
		Message: "resource not found",
		Detail:  d,
	}
}

// ErrInfoPlatformUnknown is returned when the platform is not configured.
func ErrInfoPlatformUnknown(d string) ErrorInfo {
	return ErrorInfo{
		Code:    "PLATFORM_UNKNOWN",
		Message: "platform unknown to configuration",
		Detail:  d,
	}
}

// ErrInfoUnsupported is returned when the operation is unsupported.
func ErrInfoUnsupported(d string) ErrorInfo {
	return ErrorInfo{
		Code:    "UNSUPPORTED",
		Message: "the operation is unsupported",
		Detail:  d,
	}
}
