package log

import "strconv"

// callerInfo caches the resolved file, function and line of a log call site.
// Instances are immutable and shared through the logger's caller cache.
type callerInfo struct {
	file     string
	function string
	line     int
	text     string
}

var _UnknownCallerInfo = &callerInfo{file: "???", function: "???", text: "???"}

func newCallerInfo(file, function string, line int) *callerInfo {
	return &callerInfo{
		file:     file,
		function: function,
		line:     line,
		text:     file + ":" + strconv.Itoa(line) + ":" + function,
	}
}

// String returns the pre-rendered "file:line:function" form.
func (c *callerInfo) String() string {
	return c.text
}
