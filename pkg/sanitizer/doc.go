// Package sanitizer normalizes user-supplied text before validation and
// persistence: reservation titles, usage notes, reject/return messages and
// attachment URLs. Sanitization is lossy on purpose; validation decides
// whether the sanitized value is acceptable.
package sanitizer
