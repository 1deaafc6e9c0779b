package telemetry

import "codeberg.org/mutker/clkctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	// Recording Errors
	ErrInvalidEvent     = errors.ErrorCode("telemetry_invalid_event")
	ErrRecordFailed     = errors.ErrorCode("telemetry_record_failed")
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("telemetry_storage_access_failed")
	ErrStorageInit   = errors.ErrorCode("telemetry_storage_init_failed")
	ErrStorageClose  = errors.ErrorCode("telemetry_storage_close_failed")
)
