package dispatch

import "strings"

// KebabToCamel converts a kebab-case tool name to the camelCase handler
// name it resolves to: each '-' followed by a lowercase letter is removed
// and that letter uppercased; no other characters change.
func KebabToCamel(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' && i+1 < len(name) && name[i+1] >= 'a' && name[i+1] <= 'z' {
			i++
			b.WriteByte(name[i] - ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// CamelToKebab is the inverse for names containing no digits or consecutive
// capitals: each uppercase letter becomes '-' plus its lowercase form.
func CamelToKebab(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
