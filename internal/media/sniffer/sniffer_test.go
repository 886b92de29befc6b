package sniffer_test

import (
	"errors"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/syntherra/PooDough/internal/media/sniffer"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want sniffer.MediaType
	}{
		{name: "jpeg", head: []byte{0xff, 0xd8, 0xff, 0xe0}, want: sniffer.TypeJPEG},
		{name: "png", head: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, want: sniffer.TypePNG},
		{name: "gif", head: []byte("GIF89a......"), want: sniffer.TypeGIF},
		{name: "webp", head: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), want: sniffer.TypeWEBP},
	}

	for _, tc := range cases {
		got, err := sniffer.DetectHead(tc.head)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got.Type != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got.Type, tc.want)
		}
	}
}

// Multipart part headers arrive as textproto.MIMEHeader; the declared type
// must survive the conversion to http.Header including parameter stripping.
func TestMimeTypeFromHTTP(t *testing.T) {
	part := textproto.MIMEHeader{}
	part.Set("Content-Type", "image/png; charset=binary")

	if got := sniffer.MimeTypeFromHTTP(http.Header(part)); got != "image/png" {
		t.Fatalf("got %q, want image/png", got)
	}

	if got := sniffer.MimeTypeFromHTTP(http.Header{}); got != "" {
		t.Fatalf("missing header must yield empty string, got %q", got)
	}
}

func TestDetectHead_Rejected(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"),
		[]byte("plain text"),
	} {
		if _, err := sniffer.DetectHead(head); !errors.Is(err, sniffer.ErrUnknownType) {
			t.Errorf("%q: expected ErrUnknownType, got %v", head, err)
		}
	}
}
