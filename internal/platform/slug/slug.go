package slug

import "strings"

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-")

// Underscore turns a display value into a file-name fragment: spaces become
// underscores and path separators become dashes.
func Underscore(input string) string {
	return fileNameReplacer.Replace(input)
}
