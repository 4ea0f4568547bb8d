// Package genfill is the client for the external generative-fill service.
//
// The service accepts an image plus a natural-language instruction and
// returns a new image. It is used to extend an image's canvas with
// AI-generated background and to apply free-form enhancement instructions.
//
// # Retry Discipline
//
// Calls run up to three sequential attempts with incremental backoff (1s,
// then 2s) between them. There is no concurrent fan-out: a second in-flight
// generation would duplicate cost with no benefit. Network failures,
// timeouts, HTTP 5xx and 429 are retriable; other 4xx responses abort the
// loop since retrying a rejected request cannot succeed. A response without
// an inline image part counts as a failed attempt, never as an empty
// success. When all attempts fail the terminal error wraps ErrExhausted
// plus every per-attempt error.
//
// # What This Client Does Not Do
//
// The service can report success while returning the input unchanged.
// Detecting that is the caller's job (a cheap image difference check sits
// in the pipeline), because only the caller holds the original bytes in
// their final working form.
package genfill
