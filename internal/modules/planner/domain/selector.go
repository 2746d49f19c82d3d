package domain

import "fmt"

type By int

const (
	ByID By = iota
	ByName
	ByClass
	ByTag
	ByCSS
	ByXPath
)

func (b By) String() string {
	switch b {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByClass:
		return "class"
	case ByTag:
		return "tag"
	case ByCSS:
		return "css"
	case ByXPath:
		return "xpath"
	default:
		return fmt.Sprintf("by(%d)", int(b))
	}
}

// Selector locates elements the way the portal pages are addressed: mostly by
// fixed ASP.NET ids, with XPath for text and attribute matches.
type Selector struct {
	By    By
	Value string
}

func ID(v string) Selector    { return Selector{By: ByID, Value: v} }
func Name(v string) Selector  { return Selector{By: ByName, Value: v} }
func Class(v string) Selector { return Selector{By: ByClass, Value: v} }
func Tag(v string) Selector   { return Selector{By: ByTag, Value: v} }
func CSS(v string) Selector   { return Selector{By: ByCSS, Value: v} }
func XPath(v string) Selector { return Selector{By: ByXPath, Value: v} }

func (s Selector) String() string {
	return s.By.String() + "=" + s.Value
}
