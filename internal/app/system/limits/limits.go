// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the largest JSON request body accepted by any endpoint.
	MaxJSONBody = 1 << 20 // 1 MB

	// DefaultImageUpload bounds recipe image uploads when max_upload_mb is
	// not configured.
	DefaultImageUpload = 10 << 20 // 10 MB

	// MultipartMemory is how much of a multipart upload is held in memory
	// before spilling to temporary files.
	MultipartMemory = 8 << 20 // 8 MB
)
