//go:build debug_mem_utils

package memutils

const (
	// DebugValidationEnabled reports whether DebugValidate does any work. It is true when memutils
	// is built with the debug_mem_utils build tag.
	DebugValidationEnabled bool = true
)

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}
