package folder

import "errors"

// Sentinel errors returned by hierarchy operations. Operations wrap these
// with the id that triggered the failure, so callers can match the kind
// with errors.Is and still see the offending id in the message.
var (
	// ErrAlreadyInitialized is returned when Initialize is called for an
	// owner who already has folders.
	ErrAlreadyInitialized = errors.New("folder tree already initialized")

	// ErrFolderNotFound is returned when a referenced folder id does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrParentNotFound is returned by Create when the named parent does not exist.
	ErrParentNotFound = errors.New("parent folder not found")

	// ErrNotOwner is returned by Create when the parent belongs to another owner.
	ErrNotOwner = errors.New("folder not owned by user")

	// ErrOwnerMismatch is returned by Move when the folder and destination
	// have different owners.
	ErrOwnerMismatch = errors.New("folders have different owners")

	// ErrSelfMove is returned when a folder is moved into itself.
	ErrSelfMove = errors.New("cannot move folder into itself")

	// ErrCycleDetected is returned when the destination of a move is a
	// descendant of the folder being moved.
	ErrCycleDetected = errors.New("move would create a cycle")

	// ErrItemNotFound is returned when an item is not located in any folder.
	ErrItemNotFound = errors.New("item not found in any folder")
)
