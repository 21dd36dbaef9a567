package postgres

// ContainsPattern exposes containsPattern to external tests.
var ContainsPattern = containsPattern

// WrapError exposes wrapError to external tests.
var WrapError = wrapError
