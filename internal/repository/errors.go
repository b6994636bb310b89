// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// a room type that still has rooms attached).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a room type that still has rooms attached. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrRoomNotFound is returned when a referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomTypeNotFound is returned when a referenced room type does not exist.
var ErrRoomTypeNotFound = errors.New("room type not found")

// ErrRoomNumberExists is returned when creating a room whose number is
// already taken.
var ErrRoomNumberExists = errors.New("room number already exists")

// ErrNameExists is returned when creating a catalog entry (room type,
// meal plan, market segment) whose name is already taken.
var ErrNameExists = errors.New("name already exists")
