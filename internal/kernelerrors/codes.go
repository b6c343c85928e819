// Package kernelerrors provides centralized error code definitions shared
// by every checker phase of the kernel, following the same flat,
// phase-prefixed taxonomy the rest of this corpus uses for structured
// error reporting.
package kernelerrors

// Error code constants organized by phase. Each names one specific
// violation so tooling can switch on Code() without parsing messages.
const (
	// ============================================================
	// Type checker errors (TC###)
	// ============================================================

	TC001InvalidDeb                      = "TC001"
	TC002InvalidVconIndex                = "TC002"
	TC003UnexpectedNonTypeExpression     = "TC003"
	TC004UniverseInconsistencyInIndDef   = "TC004"
	TC005WrongNumberOfIndexArguments     = "TC005"
	TC006NonInductiveMatcheeType         = "TC006"
	TC007WrongNumberOfMatchCases         = "TC007"
	TC008TypeMismatch                    = "TC008"
	TC009CalleeTypeIsNotAForExpression   = "TC009"
	TC010WrongNumberOfAppArguments       = "TC010"
	TC011WrongMatchReturnTypeArity       = "TC011"
	TC012WrongMatchCaseArity             = "TC012"

	// ============================================================
	// Structural recursion checker errors (REC###)
	// ============================================================

	REC001IllegalRecursiveCall                       = "REC001"
	REC002RecursiveFunParamInNonCalleePosition        = "REC002"
	REC003DeclaredNonrecursiveButUsedRecursiveFunParam = "REC003"
	REC004DecreasingArgIndexTooBig                    = "REC004"

	// ============================================================
	// Strict positivity checker errors (POS###)
	// ============================================================

	POS001VconDefParamTypeFailsStrictPositivity  = "POS001"
	POS002RecursiveIndParamInVconDefIndexArg      = "POS002"

	// ============================================================
	// Erasability checker errors (ERZ###)
	// ============================================================

	ERZ001MatcheeErasableButReturnTypeNotErasable = "ERZ001"
)
