// Package keyword extracts keywords, weighted terms and short phrases from
// learning-request text that mixes Chinese and English.
//
// Extraction is deterministic and holds no state beyond the immutable
// Vocabulary it was built with, so one Extractor can be shared freely.
package keyword
