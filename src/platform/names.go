package platform

// controlTypes maps UIA control type ids to their names.
var controlTypes = [...]string{
	"Button", "Calendar", "CheckBox", "ComboBox", "Edit", "Hyperlink", "Image",
	"ListItem", "List", "Menu", "MenuBar", "MenuItem", "ProgressBar",
	"RadioButton", "ScrollBar", "Slider", "Spinner", "StatusBar", "Tab",
	"TabItem", "Text", "ToolBar", "ToolTip", "Tree", "TreeItem", "Custom",
	"Group", "Thumb", "DataGrid", "DataItem", "Document", "SplitButton",
	"Window", "Pane", "Header", "HeaderItem", "Table", "TitleBar", "Separator",
	"SemanticZoom", "AppBar",
}

const firstControlType = 50000

func controlTypeName(id int32) string {
	i := int(id) - firstControlType
	if i < 0 || i >= len(controlTypes) {
		return ""
	}
	return controlTypes[i]
}

// accessibleRoles maps MSAA roles onto the UIA control type vocabulary so
// both trees read the same in reports and locators. The client area is
// reported as a Pane.
var accessibleRoles = map[int32]string{
	0x01: "TitleBar",
	0x02: "MenuBar",
	0x03: "ScrollBar",
	0x04: "Thumb",
	0x08: "ToolTip",
	0x09: "Window",
	0x0A: "Pane",
	0x0B: "Menu",
	0x0C: "MenuItem",
	0x0D: "ToolTip",
	0x0E: "Pane",
	0x0F: "Document",
	0x10: "Pane",
	0x12: "Window",
	0x14: "Group",
	0x15: "Separator",
	0x16: "ToolBar",
	0x17: "StatusBar",
	0x18: "Table",
	0x19: "HeaderItem",
	0x1A: "HeaderItem",
	0x1C: "DataItem",
	0x1D: "DataItem",
	0x1E: "Hyperlink",
	0x21: "List",
	0x22: "ListItem",
	0x23: "Tree",
	0x24: "TreeItem",
	0x25: "TabItem",
	0x27: "Custom",
	0x28: "Image",
	0x29: "Text",
	0x2A: "Edit",
	0x2B: "Button",
	0x2C: "CheckBox",
	0x2D: "RadioButton",
	0x2E: "ComboBox",
	0x2F: "ComboBox",
	0x30: "ProgressBar",
	0x33: "Slider",
	0x34: "Spinner",
	0x38: "SplitButton",
	0x39: "MenuItem",
	0x3C: "Tab",
	0x3E: "SplitButton",
	0x40: "Button",
}

func roleName(role int32) string {
	if name, ok := accessibleRoles[role]; ok {
		return name
	}
	if role == 0 {
		return ""
	}
	return "Custom"
}
