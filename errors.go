package boolean

import "errors"

// Sentinel errors the evaluator's operations return, checkable with
// errors.Is (spec.md §7, "error handling").
var (
	// ErrParameterMismatch is returned when a ciphertext or key was built
	// under a different Parameters set than the Evaluator using it.
	ErrParameterMismatch = errors.New("boolean: parameter mismatch")

	// ErrShareMismatch names multi-party shares generated against different
	// common-reference seeds or party counts. No function in this module
	// returns it: share aggregation does not compare the parties' seeds.
	ErrShareMismatch = errors.New("boolean: share mismatch")

	// ErrDecryptionAmbiguous names a recovered phase too close to a coset
	// boundary to trust. No function in this module returns it:
	// multiparty.Combine reports that case through its ambiguous result.
	ErrDecryptionAmbiguous = errors.New("boolean: decryption ambiguous")

	// ErrSetupFailure is returned when key generation or parameter
	// validation fails in a way that makes the evaluator unusable.
	ErrSetupFailure = errors.New("boolean: setup failure")
)
