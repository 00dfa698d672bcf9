package adapters

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
)

var (
	directivePattern    = regexp.MustCompile(`(?:^|[;}])\s*(?:@[\w.]+(?:\s*\([^)]*\))?\s*)*(?:import|export)\s+(r?(?:'[^'\n]*'|"[^"\n]*"))([^;]*)`)
	configurablePattern = regexp.MustCompile(`\bif\s*\([^)]*\)\s*(r?(?:'[^'\n]*'|"[^"\n]*"))`)
)

type DartSourceAdapter struct {
	WorkspaceRoot string
}

func NewDartSourceAdapter(workspaceRoot string) DartSourceAdapter {
	return DartSourceAdapter{WorkspaceRoot: workspaceRoot}
}

// ImportsForFile reads a workspace-relative Dart file and returns the URIs
// of its import and export directives.
func (a DartSourceAdapter) ImportsForFile(file string) ([]string, error) {
	content, err := os.ReadFile(shared.OSPath(a.WorkspaceRoot, file))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read " + file).
			WithCause(err)
	}
	return ParseImports(content), nil
}

// ParseImports scans Dart source for import and export directives. It is not
// a parser: comments are blanked first, then directives are matched at
// statement boundaries (start of input, after `;` or `}`), optionally behind
// annotations. The primary URI and any configurable URIs (`if (...) 'uri'`)
// are returned in order of appearance. Duplicates are kept.
func ParseImports(src []byte) []string {
	clean := stripComments(stripPreamble(src))
	var uris []string
	for _, match := range directivePattern.FindAllSubmatch(clean, -1) {
		uris = append(uris, cleanURI(string(match[1])))
		for _, conditional := range configurablePattern.FindAllSubmatch(match[2], -1) {
			uris = append(uris, cleanURI(string(conditional[1])))
		}
	}
	return uris
}

// stripPreamble drops a UTF-8 byte order mark and blanks a leading script
// tag (`#!/usr/bin/env dart`), neither of which ends with a `;`.
func stripPreamble(src []byte) []byte {
	src = bytes.TrimPrefix(src, []byte("\uFEFF"))
	if !bytes.HasPrefix(src, []byte("#!")) {
		return src
	}
	out := bytes.Clone(src)
	for i := 0; i < len(out) && out[i] != '\n'; i++ {
		out[i] = ' '
	}
	return out
}

func cleanURI(raw string) string {
	raw = strings.TrimPrefix(raw, "r")
	return strings.TrimSpace(strings.Trim(raw, `'"`))
}

// stripComments replaces line and (nested) block comments with spaces.
// Single-line string literals are kept so directive URIs survive; the body of
// multiline strings is blanked as well. Newlines are always preserved.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	depth := 0
	quote := ""
	raw := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case depth > 0:
			switch {
			case c == '*' && i+1 < len(out) && out[i+1] == '/':
				depth--
				out[i], out[i+1] = ' ', ' '
				i++
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				depth++
				out[i], out[i+1] = ' ', ' '
				i++
			case c != '\n':
				out[i] = ' '
			}
		case quote != "":
			multiline := len(quote) == 3
			if c == '\\' && !raw {
				if multiline {
					blankInline(out, i)
					blankInline(out, i+1)
				}
				i++
				continue
			}
			switch {
			case strings.HasPrefix(string(out[i:min(i+len(quote), len(out))]), quote):
				i += len(quote) - 1
				quote = ""
			case c == '\n' && !multiline:
				quote = ""
			case multiline:
				blankInline(out, i)
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			depth = 1
			out[i], out[i+1] = ' ', ' '
			i++
		case c == '\'' || c == '"':
			raw = i > 0 && out[i-1] == 'r'
			if i+2 < len(out) && out[i+1] == c && out[i+2] == c {
				quote = strings.Repeat(string(c), 3)
				i += 2
			} else {
				quote = string(c)
			}
		}
	}
	return out
}

func blankInline(buf []byte, i int) {
	if i < len(buf) && buf[i] != '\n' {
		buf[i] = ' '
	}
}

var _ ports.SourcePort = DartSourceAdapter{}
