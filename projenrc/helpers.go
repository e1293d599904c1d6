// Package projenrc synthesizes the editor extension and release workflows
// that ship the lintlsp binary.
package projenrc

func StrPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}
