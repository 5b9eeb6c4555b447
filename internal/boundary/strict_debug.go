//go:build toodle_debug

package boundary

const strict = true
