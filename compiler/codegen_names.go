package compiler

import "strings"

// toCamelCase converts a snake_case identifier into CamelCase, ported in
// behavior from original_source/compiler_common/src/convert_case.rs. Used
// by the target-AST emitter to turn GR identifiers into target-language
// type/variant names.
func toCamelCase(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			continue
		}
		r := []rune(word)
		b.WriteString(strings.ToUpper(string(r[0])))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// toSnakeCase converts a CamelCase identifier into snake_case, preserving
// already-snake-case input and grouping consecutive digits, ported in
// behavior from the same original_source file.
func toSnakeCase(s string) string {
	hasUpper := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}

	type prevKind int
	const (
		prevNone prevKind = iota
		prevUp
		prevLow
		prevNum
	)

	var b strings.Builder
	prev := prevNone
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			b.WriteRune(r)
			prev = prevNone
			continue
		}
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
			prev = prevLow
			continue
		}
		isNum := r >= '0' && r <= '9'
		switch {
		case prev == prevNone:
			b.WriteRune(toLowerRune(r))
			if isNum {
				prev = prevNum
			} else {
				prev = prevUp
			}
		case prev == prevNum && isNum:
			b.WriteRune(r)
		case !isNum:
			b.WriteByte('_')
			b.WriteRune(toLowerRune(r))
			prev = prevUp
		default:
			b.WriteByte('_')
			b.WriteRune(toLowerRune(r))
			prev = prevNum
		}
	}
	return b.String()
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}
