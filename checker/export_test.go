package checker

// Exported aliases for testing internal functions from the
// checker_test package.

// ClassifyForTest exposes classify.
var ClassifyForTest = classify
