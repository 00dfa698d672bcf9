package core

import (
	"path"
	"strings"
)

const packageScheme = "package:"

func IsDartFile(file string) bool {
	return path.Ext(file) == ".dart"
}

// PackageNameFromURI returns the package of a `package:<name>/...` URI.
// dart: URIs, relative paths and empty package names yield false.
func PackageNameFromURI(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, packageScheme)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "/")
	if name == "" {
		return "", false
	}
	return name, true
}
