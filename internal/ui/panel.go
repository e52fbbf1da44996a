package ui

// Panel is one of the mutually exclusive regions of the page.
type Panel int

const (
	PanelNone Panel = iota
	PanelLoading
	PanelError
	PanelContent
)

// Panels lists the regions a view must be able to show or hide.
var Panels = [...]Panel{PanelLoading, PanelError, PanelContent}

func (p Panel) String() string {
	switch p {
	case PanelLoading:
		return "loading"
	case PanelError:
		return "error"
	case PanelContent:
		return "content"
	default:
		return "none"
	}
}

// PanelState is the visible panel plus the error text when Panel is PanelError.
type PanelState struct {
	Panel   Panel
	Message string
}
