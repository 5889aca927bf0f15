package service

import "errors"

// Service layer errors
var (
	// ErrInvalidCredentials is returned when login fails, regardless of
	// whether the email was unknown or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAvatarTooLarge is returned when an uploaded avatar exceeds the
	// configured size limit.
	ErrAvatarTooLarge = errors.New("avatar exceeds maximum size")

	// ErrNoAvatar is returned when a user has no stored avatar.
	ErrNoAvatar = errors.New("user has no avatar")

	// ErrNoFields is returned when an update request carries no fields.
	ErrNoFields = errors.New("no fields to update")
)
