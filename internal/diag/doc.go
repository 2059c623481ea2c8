// Package diag defines the diagnostic model shared by the lexer, the driver
// and the renderers.
//
// Diagnostic is the central record: severity, a compact numeric Code with a
// stable string form, a message, the primary span and optional notes.
//
// Messages are rcstr strings. Fixed texts are borrowed from NUL-terminated
// literals with Static and cost nothing; formatted texts are copied in with
// Msgf. Ownership moves with the diagnostic: a Reporter either stores the
// strings (BagReporter) or releases them (NopReporter, FilterReporter on a
// duplicate or low-severity report), and a Bag releases whatever it drops because of its limit or
// Dedup, plus everything on Release.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
