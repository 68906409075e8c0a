package manifest

import "sort"

// DefaultPreset is used when no file names are given at all
const DefaultPreset = "shadcn"

var presets = map[string][]string{
	// shadcn/ui components as generated into src/components/ui
	"shadcn": {
		"accordion.tsx", "alert-dialog.tsx", "alert.tsx", "aspect-ratio.tsx", "avatar.tsx",
		"badge.tsx", "breadcrumb.tsx", "button.tsx", "calendar.tsx", "card.tsx",
		"carousel.tsx", "chart.tsx", "checkbox.tsx", "collapsible.tsx", "command.tsx",
		"context-menu.tsx", "dialog.tsx", "drawer.tsx", "dropdown-menu.tsx", "form.tsx",
		"hover-card.tsx", "input-otp.tsx", "input.tsx", "label.tsx", "menubar.tsx",
		"navigation-menu.tsx", "pagination.tsx", "popover.tsx", "progress.tsx", "radio-group.tsx",
		"resizable.tsx", "scroll-area.tsx", "select.tsx", "separator.tsx", "sheet.tsx",
		"sidebar.tsx", "skeleton.tsx", "slider.tsx", "sonner.tsx", "switch.tsx",
		"table.tsx", "tabs.tsx", "textarea.tsx", "toast.tsx", "toaster.tsx",
		"toggle-group.tsx", "toggle.tsx", "tooltip.tsx", "use-toast.ts",
	},
}

// Preset returns a copy of the named file list
func Preset(name string) ([]string, bool) {
	files, ok := presets[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), files...), true
}

// PresetNames lists the built-in presets in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
