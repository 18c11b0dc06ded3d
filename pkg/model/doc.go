/*
Package model operates on model trees: identity lookup (Index), structural
patching (ApplyMatches), patch computation (ComputeMatches), traversal helpers
and validation.

None of the functions here return errors for unresolvable references: a match
whose parent cannot be found is skipped and counted, so a batch is never
aborted halfway.
*/
package model
