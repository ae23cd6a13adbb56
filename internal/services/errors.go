// Package services defines the business logic for accounts and posts. This
// file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned by Signup when the email is already
	// registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrWeakPassword is returned by Signup when the password is shorter
	// than the minimum length.
	ErrWeakPassword = errors.New("password too short")

	// ErrEmptyPost is returned when a post's text is empty after trimming.
	ErrEmptyPost = errors.New("post text is empty")

	// ErrPayloadTooLarge is returned when the request body for a new post
	// exceeds the configured byte limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNoPosts is returned by ListPosts when the owner has no posts.
	// An empty collection is treated as a not-found condition and is never
	// cached (preserved client-facing behavior).
	ErrNoPosts = errors.New("no posts found")

	// ErrPostNotFound is returned by DeletePost when the target is missing
	// OR owned by someone else; the two cases are conflated so the API does
	// not leak the existence of other users' posts.
	ErrPostNotFound = errors.New("post not found or not owned")

	// ErrUserNotFound indicates the account no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
