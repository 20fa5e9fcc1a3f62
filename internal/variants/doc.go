// Package variants turns one source image into its responsive variants.
//
// A Generator walks the breakpoint Table in order and, for each entry,
// writes a width-bounded copy (and optionally a 2x copy) in the source
// format plus every extra format, naming files {stem}-{label}[@2x].{ext}.
// Resizing is shrink-only. Encoder quality comes from QualitySettings,
// where a per-file override wins over the format default. When placeholder
// options are set, the generator also returns a tiny blurred data URL.
//
// Encoders are pluggable so callers (and tests) can swap the production
// imaging/webp/avif set.
package variants
