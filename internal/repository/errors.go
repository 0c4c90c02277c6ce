package repository

import "errors"

var (
	ErrEmailTaken    = errors.New("email already taken")
	ErrUsernameTaken = errors.New("username already taken")
	ErrSlugTaken     = errors.New("slug already taken")
)
