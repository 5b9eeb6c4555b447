//go:build !toodle_debug

package boundary

// strict makes misuse panic instead of returning StatusMisuse.
const strict = false
