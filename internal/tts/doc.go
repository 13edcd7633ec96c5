// Package tts turns a normalized story document into an ordered list of
// speech lines ready for synthesis.
//
// The pipeline for each narration unit: the quote extractor partitions the
// text into narration and quoted-speech segments using attribution cues, the
// speaker resolver maps each segment's raw speaker reference to a canonical
// registry identity, and the line assembler merges and splits segments into
// length-bounded lines with stable scene-derived ids. An optional enforcement
// gate turns unresolved speaker references, collected over the whole
// document, into a fatal outcome.
//
// Processing is single-threaded and deterministic: the same document and the
// same registry snapshot always yield the same lines.
package tts
