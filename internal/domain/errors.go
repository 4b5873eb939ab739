package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrAmbiguousRef          = errors.New("task reference matches more than one task")
	ErrEmptyText             = errors.New("text cannot be empty")
	ErrInvalidPriority       = errors.New("invalid priority (want low, medium or high)")
	ErrInvalidDate           = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidFilter         = errors.New("invalid filter (want all, active, completed, overdue or today)")
	ErrInvalidSort           = errors.New("invalid sort (want created, due, priority, alpha or manual)")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
	ErrInvalidRestorePayload = errors.New("invalid backup file")
	ErrBackupUnreadable      = errors.New("could not restore backup")
	ErrKeyNotFound           = errors.New("key not found")
	ErrConfigExists          = errors.New("config file already exists")
	ErrUnknownBackend        = errors.New("unknown storage backend")
	ErrInvalidMove           = errors.New("specify exactly one of --before, --end, --up or --down")
)
