// Package httputil provides response helpers shared by HTTP handlers.
//
// # Errors
//
// Coded errors from [errors] map onto HTTP statuses with [StatusCode]:
//
//   - UNKNOWN_PROFILE, NOT_FOUND: 404
//   - RENDER_FAILED, DISTORTION_FAILED: 422
//   - INVALID_INPUT, INVALID_PARAMETER, INVALID_FORMAT, INVALID_PROFILE: 400
//   - DUPLICATE_PROFILE: 409
//   - anything else: 500
//
// [WriteError] writes the status and a JSON body carrying the code and the
// user-facing message. Internal errors never expose their message.
//
// [errors]: github.com/matzehuels/ocrsynth/pkg/errors
package httputil
