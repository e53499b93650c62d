// Package tokenizer provides URI tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for URI strings.
// Delimiters are emitted as their own tokens; everything between them is Text.
const (
	TokenSchemeSep = "SchemeSep" // ://
	TokenAt        = "At"        // @ (userinfo terminator)
	TokenColon     = "Colon"     // : (password or port separator)
	TokenSlash     = "Slash"     // /
	TokenQuestion  = "Question"  // ? (query introducer)
	TokenHash      = "Hash"      // # (fragment introducer)
	TokenText      = "Text"      // any run of non-delimiter characters
)
