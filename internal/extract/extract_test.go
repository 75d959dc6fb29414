package extract

import (
	"errors"
	"testing"
)

func TestExtractText(t *testing.T) {
	text, err := Extract([]byte("hello\nworld"), KindText)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "hello\nworld" {
		t.Errorf("Extract() = %q, want %q", text, "hello\nworld")
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := Extract([]byte{0xff, 0xfe, 0xfd}, KindText)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if extErr.Kind != KindText {
		t.Errorf("Kind = %q, want %q", extErr.Kind, KindText)
	}
}

func TestExtractGarbagePDF(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf"), KindPDF)
	if err == nil {
		t.Fatal("expected error for non-PDF bytes")
	}
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if extErr.Kind != KindPDF {
		t.Errorf("Kind = %q, want %q", extErr.Kind, KindPDF)
	}
}

func TestExtractUnknownKind(t *testing.T) {
	if _, err := Extract([]byte("data"), MediaKind("image/png")); err == nil {
		t.Fatal("expected error for unsupported media kind")
	}
}

func TestKindForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        MediaKind
		ok          bool
	}{
		{"application/pdf", KindPDF, true},
		{"text/plain", KindText, true},
		{"text/plain; charset=utf-8", KindText, true},
		{" text/plain ", KindText, true},
		{"image/png", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, ok := KindForContentType(tt.contentType)
			if got != tt.want || ok != tt.ok {
				t.Errorf("KindForContentType(%q) = (%q, %v), want (%q, %v)",
					tt.contentType, got, ok, tt.want, tt.ok)
			}
		})
	}
}
