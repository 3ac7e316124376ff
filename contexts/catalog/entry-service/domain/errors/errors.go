package errors

import "errors"

var (
	ErrInvalidEntryInput = errors.New("invalid entry input")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrTagExists         = errors.New("tag already exists")
	ErrAuthorNotFound    = errors.New("author not found")
	ErrLicenseNotFound   = errors.New("license not found")
	ErrDuplicateAsset    = errors.New("file checksum conflicts with an existing asset")
)
