package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a provider attempt failed.
type ErrorKind string

const (
	KindNetwork               ErrorKind = "network"
	KindInvalidResponse       ErrorKind = "invalid_response"
	KindPartialData           ErrorKind = "partial_data"
	KindUnavailableCredential ErrorKind = "unavailable_credential"
)

var (
	// ErrNetwork marks transport failures: no response or endpoint unreachable.
	ErrNetwork = errors.New("network error")
	// ErrInvalidResponse marks non-success statuses and undecodable payloads.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrPartialData marks payloads that decoded but lack required sections.
	ErrPartialData = errors.New("partial data")
	// ErrUnavailableCredential marks a provider skipped because it has no credential.
	ErrUnavailableCredential = errors.New("credential not configured")
	// ErrLocationUnavailable is returned when every coordinate source failed.
	ErrLocationUnavailable = errors.New("location unavailable")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindInvalidResponse:
		return ErrInvalidResponse
	case KindPartialData:
		return ErrPartialData
	case KindUnavailableCredential:
		return ErrUnavailableCredential
	default:
		return nil
	}
}

// ProviderError carries the failing provider and the failure class. It matches the
// kind sentinels and the underlying cause with errors.Is.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewNetworkError(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: KindNetwork, Err: err}
}

func NewInvalidResponseError(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: KindInvalidResponse, Err: err}
}

func NewPartialDataError(provider, missing string) error {
	return &ProviderError{Provider: provider, Kind: KindPartialData, Err: fmt.Errorf("missing %s", missing)}
}

func NewUnavailableCredentialError(provider string) error {
	return &ProviderError{Provider: provider, Kind: KindUnavailableCredential}
}

// KindOf extracts the ErrorKind of err, or "" when err is not a ProviderError.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
