package fsutil

// ExpandHomePathWith exports expandHomePath for tests.
var ExpandHomePathWith = expandHomePath
