package common

const (
	// MaxRequestBody limits JSON and form request bodies.
	MaxRequestBody = 1 << 20
	// MaxUploadBody limits multipart uploads on the admin screen.
	MaxUploadBody = 20 << 20
)
