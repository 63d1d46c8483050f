package qr

// Renderer turns a vendor-issued QR payload string into an image the
// frontend can embed directly.
type Renderer interface {
	// DataURL renders content as a PNG data URL of the given pixel size.
	DataURL(content string, size int) (string, error)
}
