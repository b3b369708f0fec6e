// Package scoring turns per-dimension judgments and target completion
// counts into a single normalized success score, and labels scores against
// a configurable pass/fail threshold. It also carries the rater-facing
// rubric definitions for the four quality dimensions.
package scoring
