package user

import "errors"

var (
	ErrNotFound         = errors.New("user not found")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrAvatarTooLarge   = errors.New("avatar exceeds the size limit")
	ErrAvatarType       = errors.New("avatar must be a jpeg, png or gif image")
)
