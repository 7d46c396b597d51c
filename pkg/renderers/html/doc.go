// Package html generates a standalone <form> snippet from a FormSpec. Generate
// is the current generator. GenerateV1 is kept, deprecated, for byte-level
// compatibility checks against forms produced by the first generator, whose
// escaping was looser.
package html
