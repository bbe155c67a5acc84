package attachments

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	maxBaseLen      = 200
	maxExtLen       = 16
	placeholderBase = "file"
)

// SanitizeFileName returns a storage-path-safe version of name. The result
// only contains [A-Za-z0-9._-], is never empty and keeps a sanitized
// extension when the input had one.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 && i < len(name)-1 {
		base, ext = name[:i], name[i+1:]
	}

	base = sanitizeBase(base)
	if base == "" {
		base = placeholderBase
	}
	ext = sanitizeExt(ext)
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// ObjectKey namespaces a sanitized file name under its document id.
func ObjectKey(documentID, sanitizedName string) string {
	return documentID + "/" + sanitizedName
}

func isSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-'
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// fold decomposes s and drops combining marks so "é" becomes "e".
func fold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sanitizeBase(s string) string {
	var b strings.Builder
	prevSep := false
	for _, r := range fold(s) {
		if unicode.IsSpace(r) {
			r = '-'
		}
		switch {
		case isASCIIAlnum(r):
			b.WriteRune(r)
			prevSep = false
		case isSeparator(r):
			if !prevSep {
				b.WriteRune(r)
			}
			prevSep = true
		}
	}
	out := strings.TrimFunc(b.String(), isSeparator)
	if len(out) > maxBaseLen {
		out = strings.TrimRightFunc(out[:maxBaseLen], isSeparator)
	}
	return out
}

func sanitizeExt(s string) string {
	var b strings.Builder
	for _, r := range fold(s) {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
			if b.Len() == maxExtLen {
				break
			}
		}
	}
	return b.String()
}
