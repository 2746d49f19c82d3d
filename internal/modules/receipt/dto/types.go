package dto

type GenerateInput struct {
	Input     string
	Template  string
	OutputDir string
	Overlay   string
}

type GeneratedFile struct {
	Student string
	Class   string
	Path    string
}

type SkippedRecord struct {
	Student string
	Reason  string
}

type GenerateOutput struct {
	Generated []GeneratedFile
	Skipped   []SkippedRecord
}
