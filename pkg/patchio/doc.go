// Package patchio reads and writes triangular patches in the
// brace-delimited text format:
//
//	{{
//	{0.0000f, 1.0000f, 0.0000f},
//	{1.0000f, 1.0000f, 0.0000f}, {0.0000f, 1.0000f, 1.0000f},
//	{1.0000f, 0.0000f, 0.0000f}, {1.0000f, 0.0000f, 1.0000f}, {0.0000f, 0.0000f, 1.0000f}
//	}}
//
// Points appear in patch storage order, one row per line. Whitespace is
// insignificant and the trailing f on each number is optional. The
// degree is not recorded in the text; callers either supply it or use
// ParseAuto to infer it from the point count.
package patchio
