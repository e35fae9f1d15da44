package images

// Source is the image input for one publish attempt. Exactly one variant
// is used per run: raw bytes to upload, or an already-resolved URL. A nil
// Source means no image was supplied.
type Source interface {
	source()
}

// BytesSource is a raw image payload to be uploaded to object storage.
type BytesSource struct {
	Data []byte
	MIME string
}

func (BytesSource) source() {}

// URLSource is an image that is already publicly addressable. It is used
// as-is; no reachability check is performed.
type URLSource struct {
	URL string
}

func (URLSource) source() {}
