package volume

import "github.com/bmatcuk/doublestar/v4"

type deviceIcon struct {
	pattern    string
	deviceType string
}

// Vendor specific names come first so they win over the generic patterns.
// See the freedesktop icon naming specification for the generic ones.
var deviceIcons = []deviceIcon{
	{"multimedia-player-apple-ipod-touch", "iPod touch"},
	{"computer-apple-ipad", "iPad"},
	{"phone-apple-iphone", "iPhone"},
	{"drive-harddisk-solidstate", "Solid State Drive"},
	{"drive-harddisk-system", "System Drive"},
	{"drive-harddisk-usb", "USB Drive"},
	{"drive-removable-media-usb", "USB Drive"},

	{"camera*", "Camera"},
	{"drive-harddisk*", "Harddisk"},
	{"drive-optical*", "Optical Drive"},
	{"drive-removable-media*", "Removable Drive"},
	{"media-flash*", "Flash Drive"},
	{"media-floppy*", "Floppy"},
	{"media-optical*", "Optical Media"},
	{"media-tape*", "Tape"},
	{"multimedia-player*", "Multimedia Player"},
	{"pda*", "PDA"},
	{"phone*", "Phone"},
}

// GuessDeviceType maps an icon name to a device type such as "USB Drive".
// It returns "" when no entry matches.
func GuessDeviceType(iconName string) string {
	if iconName == "" {
		return ""
	}
	for _, icon := range deviceIcons {
		if ok, _ := doublestar.Match(icon.pattern, iconName); ok {
			return icon.deviceType
		}
	}
	return ""
}
