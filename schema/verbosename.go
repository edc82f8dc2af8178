package schema

import (
	"fmt"
	"strings"
)

// Verbosename renders the human-readable, category-qualified form of a
// qualified name used throughout diagnostics (cycle
// messages, and any other error that names an object).
//
// Object types and scalars render as "<category> '<name>'", functions
// render with their parameter signature split back out, and pointers /
// access policies render with their owner split back out of the
// compound "owner@rest" name scheme (schema/name.go).
func Verbosename(cat Category, name Name) string {
	switch cat {
	case FunctionCategory:
		base, params := splitFunctionName(name.Name)
		return fmt.Sprintf("function '%s::%s(%s)'", name.Module, base, params)
	case LinkCategory, PropertyCategory:
		owner, ptr := splitOwnerRest(name.Name)
		return fmt.Sprintf("%s '%s' of object type '%s::%s'", cat, ptr, name.Module, owner)
	case AccessPolicyCategory:
		owner, policy := splitOwnerRest(name.Name)
		return fmt.Sprintf("access policy '%s' of object type '%s::%s'", policy, name.Module, owner)
	case IndexCategory:
		owner, _ := splitOwnerRest(name.Name)
		return fmt.Sprintf("index of object type '%s::%s'", name.Module, owner)
	case AnnotationValueCategory:
		owner, anno := splitOwnerRest(name.Name)
		return fmt.Sprintf("annotation '%s' of '%s::%s'", anno, name.Module, owner)
	case ConstraintCategory:
		if owner, rest, ok := splitConstraintSubject(name.Name); ok {
			return fmt.Sprintf("constraint '%s' of '%s::%s'", rest, name.Module, owner)
		}
		return fmt.Sprintf("constraint '%s::%s'", name.Module, name.Name)
	default:
		return fmt.Sprintf("%s '%s::%s'", cat, name.Module, name.Name)
	}
}

// splitFunctionName undoes FunctionID's "name(params)" rendering.
func splitFunctionName(rendered string) (base, params string) {
	open := strings.IndexByte(rendered, '(')
	if open < 0 || !strings.HasSuffix(rendered, ")") {
		return rendered, ""
	}
	return rendered[:open], rendered[open+1 : len(rendered)-1]
}

// splitOwnerRest undoes the "owner@rest" scheme shared by PointerID,
// AccessPolicyID, and AnnotationValueID.
func splitOwnerRest(compound string) (owner, rest string) {
	at := strings.IndexByte(compound, '@')
	if at < 0 {
		return compound, ""
	}
	return compound[:at], compound[at+1:]
}

// splitConstraintSubject undoes ConcreteConstraintID's
// "subject@cons_basename@@signature" scheme, discarding the signature.
func splitConstraintSubject(compound string) (subject, consBasename string, ok bool) {
	sigIdx := strings.Index(compound, "@@")
	if sigIdx < 0 {
		return "", "", false
	}
	head := compound[:sigIdx]
	at := strings.IndexByte(head, '@')
	if at < 0 {
		return "", "", false
	}
	return head[:at], head[at+1:], true
}
