// internal/editor/preview.go
package editor

import "sync"

// PreviewHandle is a locally addressable reference to a file that has been
// picked for upload but not persisted yet. The backing resource (a spooled
// temp file) lives until Release is called; Release is idempotent and safe
// to call from deferred cleanup paths.
type PreviewHandle struct {
	url      string
	release  func()
	mtx      sync.Mutex
	released bool
}

func NewPreviewHandle(url string, release func()) *PreviewHandle {
	return &PreviewHandle{url: url, release: release}
}

// URL returns the preview reference. It stays readable after Release so
// callers can still log or compare it, but the backing resource is gone.
func (h *PreviewHandle) URL() string {
	return h.url
}

func (h *PreviewHandle) Release() {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.released {
		return
	}
	h.released = true
	if h.release != nil {
		h.release()
	}
}

func (h *PreviewHandle) Released() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.released
}
