// Package preflight provides filesystem readiness checks for an imgprep run.
//
// These checks run in two contexts:
//   - The pipeline calls RunAll before touching the output directory. Failed
//     checks are logged as warnings; only a fatal check aborts the run.
//   - The CLI "imgprep check" command prints every result.
package preflight
