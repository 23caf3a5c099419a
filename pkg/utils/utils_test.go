package utils

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

func fileHeader(size int64, contentType string) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: "sample.webm",
		Header:   header,
		Size:     size,
	}
}

func TestValidateAudioFile(t *testing.T) {
	u := New()

	cases := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr bool
	}{
		{"nil file", nil, true},
		{"empty file", fileHeader(0, "audio/webm"), true},
		{"oversized", fileHeader(11*1024*1024, "audio/webm"), true},
		{"not audio", fileHeader(100, "image/png"), true},
		{"webm audio", fileHeader(100, "audio/webm"), false},
		{"wav audio", fileHeader(100, "audio/wav"), false},
		{"octet stream", fileHeader(100, "application/octet-stream"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := u.ValidateAudioFile(tc.file)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateAudioFile = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewULIDFromTimestampOrders(t *testing.T) {
	u := New()

	now := time.Now()
	earlier, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp: %v", err)
	}
	later, err := u.NewULIDFromTimestamp(now.Add(time.Second))
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp: %v", err)
	}

	if len(earlier) != 26 || len(later) != 26 {
		t.Fatalf("unexpected ulid lengths %d, %d", len(earlier), len(later))
	}
	if strings.Compare(earlier, later) >= 0 {
		t.Errorf("ulids not ordered by timestamp: %s >= %s", earlier, later)
	}
}
