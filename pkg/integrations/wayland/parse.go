package wayland

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// windowInfo is the compositor's view of the focused window.
type windowInfo struct {
	title string
	appID string
	pid   int
}

type hyprlandWindow struct {
	Class        string `json:"class"`
	InitialClass string `json:"initialClass"`
	Title        string `json:"title"`
	PID          int    `json:"pid"`
}

// parseHyprlandWindow parses `hyprctl activewindow -j`. Hyprland prints
// "Invalid" or an empty object when nothing has focus.
func parseHyprlandWindow(data []byte) (windowInfo, bool, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return windowInfo{}, false, nil
	}

	var w hyprlandWindow
	if err := json.Unmarshal([]byte(trimmed), &w); err != nil {
		return windowInfo{}, false, errors.Wrap(err, "failed to parse hyprctl output")
	}
	if w.Class == "" && w.Title == "" && w.PID <= 0 {
		return windowInfo{}, false, nil
	}

	info := windowInfo{title: w.Title, appID: w.Class, pid: w.PID}
	if info.appID == "" {
		info.appID = w.InitialClass
	}
	return info, true, nil
}

type swayNode struct {
	Name             *string   `json:"name"`
	Type             string    `json:"type"`
	Focused          bool      `json:"focused"`
	AppID            *string   `json:"app_id"`
	PID              int       `json:"pid"`
	WindowProperties *struct {
		Class    string `json:"class"`
		Instance string `json:"instance"`
	} `json:"window_properties"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

// parseSwayTree walks `swaymsg -t get_tree` to the focused view. A focused
// workspace or output means no window has focus.
func parseSwayTree(data []byte) (windowInfo, bool, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return windowInfo{}, false, errors.Wrap(err, "failed to parse sway tree")
	}

	node := findFocused(&root)
	if node == nil || (node.Type != "con" && node.Type != "floating_con") || node.PID <= 0 {
		return windowInfo{}, false, nil
	}

	info := windowInfo{pid: node.PID}
	if node.Name != nil {
		info.title = *node.Name
	}
	if node.AppID != nil {
		info.appID = *node.AppID
	}
	if info.appID == "" && node.WindowProperties != nil {
		info.appID = node.WindowProperties.Class
		if info.appID == "" {
			info.appID = node.WindowProperties.Instance
		}
	}
	return info, true, nil
}

func findFocused(n *swayNode) *swayNode {
	if n.Focused {
		return n
	}
	for i := range n.Nodes {
		if f := findFocused(&n.Nodes[i]); f != nil {
			return f
		}
	}
	for i := range n.FloatingNodes {
		if f := findFocused(&n.FloatingNodes[i]); f != nil {
			return f
		}
	}
	return nil
}

type gnomeWindow struct {
	WMClass string `json:"wm_class"`
	Title   string `json:"title"`
	PID     int    `json:"pid"`
}

// parseGnomeResult parses the JSON value returned by gnomeFocusScript.
func parseGnomeResult(result string) (windowInfo, bool, error) {
	result = strings.TrimSpace(result)
	if result == "" || result == "null" {
		return windowInfo{}, false, nil
	}

	var w gnomeWindow
	if err := json.Unmarshal([]byte(result), &w); err != nil {
		return windowInfo{}, false, errors.Wrap(err, "failed to parse Shell.Eval result")
	}
	return windowInfo{title: w.Title, appID: w.WMClass, pid: w.PID}, true, nil
}
