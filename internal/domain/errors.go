package domain

import "errors"

var (
	ErrDecisionNotFound = errors.New("decision not found")
	ErrLinkNotFound     = errors.New("link not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSecretNotFound   = errors.New("secret not found")
)
