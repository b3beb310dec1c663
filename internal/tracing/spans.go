package tracing

// Span attribute keys shared by the tokenize and scan drivers.
const (
	AttrFilePath   = "file.path"
	AttrFileBytes  = "file.bytes"
	AttrTokenCount = "tokens.count"
	AttrBadCount   = "tokens.bad"
	AttrRunGUID    = "run.guid"
	AttrScanFiles  = "scan.files"
	AttrScanCached = "scan.cached"
	AttrErrorMsg   = "error.message"
)

// Span names.
const (
	SpanTokenizeFile = "tokenize.file"
	SpanScanDir      = "scan.dir"
	SpanHistorySave  = "history.save"
)
