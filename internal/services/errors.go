// Package services defines the business logic for recipes, their composition,
// the shopping list, user relations (favorites, cart, subscriptions) and the
// reference catalog. This file centralizes the service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Every predictable failure is an *Error carrying one of the kind sentinels
// below, so callers can branch on the kind with errors.Is(err, ErrNotFound)
// or on the specific case with errors.Is(err, ErrRecipeNotFound).
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

// Error kinds.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrSelfReference = errors.New("self reference")
	ErrForbidden     = errors.New("forbidden")
)

// Error is a classified service failure.
type Error struct {
	// Kind is one of the kind sentinels (ErrValidation, ErrConflict, ...).
	Kind error
	// Code is a stable snake_case identifier, suitable for API responses.
	Code string
	// Rule names the validation rule that failed (validation errors only).
	Rule string
	// Msg is the human-readable message.
	Msg string
}

func (e *Error) Error() string {
	if e.Rule != "" {
		return e.Rule + ": " + e.Msg
	}
	return e.Msg
}

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

// Is matches another *Error with the same code, so messages may vary per
// call site while errors.Is(err, ErrRelationExists) keeps working.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

func validationError(rule, msg string) *Error {
	return &Error{Kind: ErrValidation, Code: "validation_error", Rule: rule, Msg: msg}
}

// Recipe errors.
var (
	ErrRecipeNotFound = &Error{Kind: ErrNotFound, Code: "recipe_not_found", Msg: "recipe not found"}
	ErrRecipeExists   = &Error{Kind: ErrConflict, Code: "recipe_exists", Msg: "recipe already exists"}
	ErrNotAuthor      = &Error{Kind: ErrForbidden, Code: "not_author", Msg: "only the author may change this recipe"}
)

// Relation errors. The toggle returns these codes with a message naming the
// relation ("recipe is already in favorites", ...).
var (
	ErrRelationExists   = &Error{Kind: ErrConflict, Code: "relation_exists", Msg: "relation already exists"}
	ErrRelationNotFound = &Error{Kind: ErrNotFound, Code: "relation_not_found", Msg: "relation does not exist"}
	ErrSelfSubscription = &Error{Kind: ErrSelfReference, Code: "self_subscription", Msg: "cannot subscribe to yourself"}
)

// User and catalog errors.
var (
	ErrUserNotFound       = &Error{Kind: ErrNotFound, Code: "user_not_found", Msg: "user not found"}
	ErrUserExists         = &Error{Kind: ErrConflict, Code: "user_exists", Msg: "email or username already taken"}
	ErrTagNotFound        = &Error{Kind: ErrNotFound, Code: "tag_not_found", Msg: "tag not found"}
	ErrTagExists          = &Error{Kind: ErrConflict, Code: "tag_exists", Msg: "tag name, color or slug already taken"}
	ErrIngredientNotFound = &Error{Kind: ErrNotFound, Code: "ingredient_not_found", Msg: "ingredient not found"}
)
