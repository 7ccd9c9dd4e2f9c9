// Package notify prints the status lines box shows its users.
//
// Every line starts with a symbol for its kind: success (✔), error (✗),
// warning (⚠), info (ℹ) or activity (►). Titles start with an emoji instead.
// Colors come from fatih/color and are dropped automatically when the output
// is not a terminal or NO_COLOR is set.
package notify
