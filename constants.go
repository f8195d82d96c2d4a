package main

type Tool int

const (
	ToolPen Tool = iota
	ToolText
	ToolSelect
)

func (t Tool) String() string {
	switch t {
	case ToolText:
		return "text"
	case ToolSelect:
		return "select"
	default:
		return "pen"
	}
}

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpExportPNG FileOperation = iota
	FileOpExportTXT
)

type ConfirmAction int

const (
	ConfirmDeleteSelected ConfirmAction = iota
	ConfirmClearNote
)

const (
	minBoxWidth  = 8
	minBoxHeight = 3
	numColors    = 8
)

// palette backs the 1-8 colour keys.
var palette = [numColors]string{
	"#333333",
	"#d32f2f",
	"#f57c00",
	"#fbc02d",
	"#388e3c",
	"#1976d2",
	"#7b1fa2",
	"#ffffff",
}
