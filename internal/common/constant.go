package common

// Blob keys and record paths are derived deterministically from record IDs,
// so a retried upload overwrites the same location instead of duplicating it.
const (
	// PhotoKeyPrefix is the blob-store key prefix for sowing photos.
	PhotoKeyPrefix = "sowing_photos/"

	// RecordPathPrefix is the document path prefix for sowing records.
	RecordPathPrefix = "sowing_logs/"
)

// PhotoKey returns the blob-store key for a record's photo.
func PhotoKey(recordID string) string {
	return PhotoKeyPrefix + recordID + ".jpg"
}

// RecordPath returns the document path for a sowing record.
func RecordPath(recordID string) string {
	return RecordPathPrefix + recordID
}
