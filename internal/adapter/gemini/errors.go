package gemini

import "errors"

// ErrModelCall marks failures talking to the Gemini API, embedding and
// generation alike.
var ErrModelCall = errors.New("gemini model call failed")
