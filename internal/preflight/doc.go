// Package preflight provides readiness checks for the tools, directories
// and assets a capsule build depends on.
//
// These checks run in two contexts:
//   - The produce commands call CheckSystemDeps and CheckAssets before the first
//     ffmpeg job so a missing slide fails in seconds instead of midway
//     through a long render.
//   - The CLI "slidecast check" command uses the individual check
//     functions to display an environment report.
package preflight
