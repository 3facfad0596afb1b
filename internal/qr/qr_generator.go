package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// QRGenerator renders share codes pointing at public pages of the site.
type QRGenerator struct {
	baseURL string
	size    int
}

func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{baseURL: strings.TrimRight(baseURL, "/"), size: DefaultSize}
}

// URL returns the absolute address of path.
func (q *QRGenerator) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return q.baseURL + path
}

// VenuePNG encodes the public URL of a venue page.
func (q *QRGenerator) VenuePNG(id int64) ([]byte, error) {
	return q.PNG(fmt.Sprintf("/venues/%d", id))
}

// ArtistPNG encodes the public URL of an artist page.
func (q *QRGenerator) ArtistPNG(id int64) ([]byte, error) {
	return q.PNG(fmt.Sprintf("/artists/%d", id))
}

func (q *QRGenerator) PNG(path string) ([]byte, error) {
	png, err := qrcode.Encode(q.URL(path), qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", path, err)
	}
	return png, nil
}
