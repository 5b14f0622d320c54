package matcher_test

import (
	"context"
	"path/filepath"
	"testing"

	"clawbot/internal/library"
	"clawbot/internal/logging"
	"clawbot/internal/matcher"
	"clawbot/internal/testsupport"

	"golang.org/x/text/encoding/unicode"
)

func newClassifier() *matcher.MarkerClassifier {
	return matcher.NewMarkerClassifier(logging.NewNop(), matcher.Markers{
		Positive:      "armv8",
		Negative:      "armv9",
		TextExtension: ".txt",
	})
}

func doc(path string) library.Document {
	return library.Document{Path: path, Name: filepath.Base(path), Ext: filepath.Ext(path)}
}

func TestFilenameSignal(t *testing.T) {
	dir := t.TempDir()
	classifier := newClassifier()
	cases := []struct {
		name string
		want bool
	}{
		{"chip-armv8.pdf", true},
		{"CPU-ARMv8-Reference.PDF", true},
		{"chip-armv8-not-armv9.pdf", false},
		{"gpu-armv9.pdf", false},
		{"x86-manual.pdf", false},
	}
	for _, tc := range cases {
		got := classifier.IsTarget(context.Background(), doc(filepath.Join(dir, tc.name)))
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestContentFallbackUsesSiblingText(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "reference-manual.pdf")
	testsupport.WriteFile(t, pdf, 8)
	testsupport.WriteText(t, filepath.Join(dir, "reference-manual.txt"), "Architecture: ARMv8-A profile")

	if !newClassifier().IsTarget(context.Background(), doc(pdf)) {
		t.Fatal("expected content fallback match")
	}
}

func TestContentFallbackToleratesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "scan.pdf")
	testsupport.WriteFile(t, pdf, 8)
	testsupport.WriteText(t, filepath.Join(dir, "scan.txt"), "garbage \xff\xfe \xc3 then armv8 appears")

	if !newClassifier().IsTarget(context.Background(), doc(pdf)) {
		t.Fatal("expected match despite invalid bytes")
	}
}

func TestContentFallbackDecodesUTF16WithBOM(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "exported.pdf")
	testsupport.WriteFile(t, pdf, 8)
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("Core: ARMv8.2 baseline")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	testsupport.WriteText(t, filepath.Join(dir, "exported.txt"), encoded)

	if !newClassifier().IsTarget(context.Background(), doc(pdf)) {
		t.Fatal("expected match in UTF-16 sibling text")
	}
}

func TestContentFallbackWithoutMarker(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "other.pdf")
	testsupport.WriteFile(t, pdf, 8)
	testsupport.WriteText(t, filepath.Join(dir, "other.txt"), "nothing relevant here")

	if newClassifier().IsTarget(context.Background(), doc(pdf)) {
		t.Fatal("expected no match")
	}
}

func TestConflictingFilenameIgnoresContent(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "chip-armv8-not-armv9.pdf")
	testsupport.WriteFile(t, pdf, 8)
	testsupport.WriteText(t, filepath.Join(dir, "chip-armv8-not-armv9.txt"), "armv8")

	if newClassifier().IsTarget(context.Background(), doc(pdf)) {
		t.Fatal("expected conflicting marker to veto the document")
	}
}

func TestSiblingTextPath(t *testing.T) {
	cases := map[string]string{
		"/lib/a.pdf":         "/lib/a.txt",
		"/lib/a.v2.PDF":      "/lib/a.v2.txt",
		"/lib.d/readme":      "/lib.d/readme.txt",
		"relative/x.pdf.pdf": "relative/x.pdf.txt",
	}
	for in, want := range cases {
		if got := matcher.SiblingTextPath(in, ".txt"); got != want {
			t.Fatalf("SiblingTextPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindTargetReturnsFirstMatchDeterministically(t *testing.T) {
	dir := t.TempDir()
	docs := []library.Document{
		doc(filepath.Join(dir, "gpu-armv9.pdf")),
		doc(filepath.Join(dir, "cpu-armv8-v2.pdf")),
		doc(filepath.Join(dir, "cpu-armv8-v3.pdf")),
	}
	classifier := newClassifier()
	for i := 0; i < 3; i++ {
		got, ok := matcher.FindTarget(context.Background(), docs, classifier)
		if !ok {
			t.Fatal("expected a match")
		}
		if got.Name != "cpu-armv8-v2.pdf" {
			t.Fatalf("expected first match cpu-armv8-v2.pdf, got %s", got.Name)
		}
	}
}

func TestFindTargetNoMatch(t *testing.T) {
	dir := t.TempDir()
	docs := []library.Document{doc(filepath.Join(dir, "gpu-armv9.pdf")), doc(filepath.Join(dir, "notes.pdf"))}
	if _, ok := matcher.FindTarget(context.Background(), docs, newClassifier()); ok {
		t.Fatal("expected no match")
	}
	if _, ok := matcher.FindTarget(context.Background(), nil, newClassifier()); ok {
		t.Fatal("expected no match for empty input")
	}
}

func TestFindTargetAcceptsCustomClassifier(t *testing.T) {
	docs := []library.Document{{Name: "a.pdf"}, {Name: "b.pdf"}}
	classifier := matcher.ClassifierFunc(func(_ context.Context, d library.Document) bool {
		return d.Name == "b.pdf"
	})
	got, ok := matcher.FindTarget(context.Background(), docs, classifier)
	if !ok || got.Name != "b.pdf" {
		t.Fatalf("expected b.pdf, got %+v %v", got, ok)
	}
}
