package approval

import "fmt"

var pageIcons = map[string]string{
	"portfolio": "💼",
	"resume":    "📄",
	"skills":    "🛠️",
	"blog":      "📝",
}

var pageNames = map[string]string{
	"portfolio": "Portfolio",
	"resume":    "Resume",
	"skills":    "Tech Stack",
	"blog":      "Tech Blog",
}

// Render builds the display view for an action from its type and params.
// Unknown action types get a generic view.
func Render(action *Action) *View {
	view := renderType(action.Type, action.Params)
	view.Explanation = action.Explanation
	return view
}

func renderType(actionType string, params map[string]interface{}) *View {
	switch actionType {
	case ActionNavigate:
		page := param(params, "page")
		return &View{
			Icon:        PageIcon(page),
			Title:       "Navigate",
			Description: fmt.Sprintf("Go to the %s page?", PageName(page)),
		}
	case ActionScroll:
		return &View{
			Icon:        "⬇️",
			Title:       "Scroll",
			Description: fmt.Sprintf("Scroll to the %s section?", param(params, "element")),
		}
	case ActionDownload:
		return &View{
			Icon:        "📥",
			Title:       "Download file",
			Description: fmt.Sprintf("Download %s?", param(params, "filename")),
		}
	case ActionExternalLink:
		return &View{
			Icon:        "🔗",
			Title:       "External link",
			Description: fmt.Sprintf("Open %s?", param(params, "url")),
		}
	}
	return &View{
		Icon:        "⚡",
		Title:       "Run action",
		Description: "Run this action?",
	}
}

// PageIcon returns the icon for a known page, or a generic document icon.
func PageIcon(page string) string {
	if icon, ok := pageIcons[page]; ok {
		return icon
	}
	return "📄"
}

// PageName returns the display name for a known page, or page itself.
func PageName(page string) string {
	if name, ok := pageNames[page]; ok {
		return name
	}
	return page
}

func param(params map[string]interface{}, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
