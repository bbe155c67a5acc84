package attachments

import (
	"regexp"
	"strings"
	"testing"
)

var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Annual Report 2023.pdf":      "Annual-Report-2023.pdf",
		"  Café   déjà vu!!.PDF ":     "Cafe-deja-vu.PDF",
		"../../etc/passwd":            "passwd",
		`C:\Users\ops\meter data.csv`: "meter-data.csv",
		"--__report..final--.docx":    "report.final.docx",
		"???.pdf":                     "file.pdf",
		"":                            "file",
		".env":                        "env",
		"archive.tar.gz":              "archive.tar.gz",
		"ｆｕｌｌｗｉｄｔｈ.txt":            "fullwidth.txt",
		"photo.j@p#g":                 "photo.jpg",
		"trailing.":                   "trailing",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileNameCapsLengths(t *testing.T) {
	got := SanitizeFileName(strings.Repeat("a", 250) + "." + strings.Repeat("x", 40))
	base, ext, _ := strings.Cut(got, ".")
	if len(base) != maxBaseLen || len(ext) != maxExtLen {
		t.Fatalf("expected capped base/ext, got %d/%d", len(base), len(ext))
	}
	got = SanitizeFileName(strings.Repeat("a", maxBaseLen-1) + "-" + "tail.pdf")
	if strings.Contains(got, "-.") || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("cut must not leave a trailing separator: %q", got)
	}
}

func TestSanitizeFileNameAlwaysSafe(t *testing.T) {
	inputs := []string{"", " ", "...", "日本語.pdf", "a/b/c", "émoji 🚀 file.png", "tab\tname.txt", "x" + strings.Repeat("é", 300)}
	for _, in := range inputs {
		got := SanitizeFileName(in)
		if got == "" || !safeName.MatchString(got) {
			t.Fatalf("SanitizeFileName(%q) = %q is not storage safe", in, got)
		}
	}
	if got := SanitizeFileName("日本語.pdf"); got != "file.pdf" {
		t.Fatalf("non-latin base should fall back to placeholder, got %q", got)
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("doc-1", "a.pdf"); got != "doc-1/a.pdf" {
		t.Fatalf("ObjectKey = %q", got)
	}
}
