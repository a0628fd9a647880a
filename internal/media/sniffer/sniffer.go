// Package sniffer detects image types from content rather than trusting the
// declared Content-Type of an upload.
package sniffer

import (
	"fmt"
	"mime"
	"net/http"
	"net/textproto"
	"strings"
)

type ImageType string

const (
	TypeJPEG ImageType = "jpeg"
	TypePNG  ImageType = "png"
	TypeGIF  ImageType = "gif"
	TypeWebP ImageType = "webp"
)

type Result struct {
	Type ImageType
	MIME string
}

// DetectHead sniffs the leading bytes of an upload and returns the detected
// image type. Anything outside the jpeg/png/gif/webp allowlist is rejected.
func DetectHead(head []byte) (Result, error) {
	switch http.DetectContentType(head) {
	case "image/jpeg":
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	case "image/png":
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	case "image/gif":
		return Result{Type: TypeGIF, MIME: "image/gif"}, nil
	case "image/webp":
		return Result{Type: TypeWebP, MIME: "image/webp"}, nil
	}
	return Result{}, fmt.Errorf("unsupported image type")
}

// DeclaredMIME extracts the normalized Content-Type a multipart part claims,
// or "" when absent or unparsable.
func DeclaredMIME(header textproto.MIMEHeader) string {
	declared := header.Get("Content-Type")
	if declared == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}
