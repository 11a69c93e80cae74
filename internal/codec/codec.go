// Package codec implements the field escaping used by the flat-file stores.
//
// Records are single lines with fields separated by ';'. Three characters
// need escaping so that any string can be stored losslessly in one field:
//
//   - '\'  becomes  `\\`
//   - ';'  becomes  `\;`
//   - '\n' becomes  `\n` (a literal backslash followed by 'n')
//
// Escape and Unescape are mutually inverse over that escape set, and Split
// undoes Join for any input fields.
package codec

import "strings"

// Sep is the field separator for all flat-file records.
const Sep = ';'

// Escape makes s safe to embed as a single field in a record line.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case Sep:
			b.WriteString(`\;`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses Escape. Unknown escape sequences decode to the escaped
// character itself; a trailing lone backslash is dropped.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	esc := false
	for _, r := range s {
		if esc {
			if r == 'n' {
				b.WriteRune('\n')
			} else {
				b.WriteRune(r)
			}
			esc = false
			continue
		}
		if r == '\\' {
			esc = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Split breaks a record line into its unescaped fields.
// An empty line yields a single empty field, mirroring Join("") == "".
func Split(line string) []string {
	var fields []string
	var cur strings.Builder
	esc := false
	for _, r := range line {
		if esc {
			if r == 'n' {
				cur.WriteRune('\n')
			} else {
				cur.WriteRune(r)
			}
			esc = false
			continue
		}
		switch r {
		case '\\':
			esc = true
		case Sep:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// Join escapes every field and joins them into one record line.
func Join(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, string(Sep))
}
